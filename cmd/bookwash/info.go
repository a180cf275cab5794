package main

import (
	"github.com/spf13/cobra"

	"github.com/bookwash/bookwash/internal/api"
	"github.com/bookwash/bookwash/internal/epub"
)

// bookInfo is the info command's output document.
type bookInfo struct {
	Title           string        `yaml:"title" json:"title"`
	Author          string        `yaml:"author,omitempty" json:"author,omitempty"`
	Identifier      string        `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	Language        string        `yaml:"language,omitempty" json:"language,omitempty"`
	Chapters        int           `yaml:"chapters" json:"chapters"`
	TotalParagraphs int           `yaml:"total_paragraphs" json:"total_paragraphs"`
	ChapterList     []chapterInfo `yaml:"chapter_list" json:"chapter_list"`
}

type chapterInfo struct {
	Title      string `yaml:"title" json:"title"`
	Href       string `yaml:"href" json:"href"`
	Paragraphs int    `yaml:"paragraphs" json:"paragraphs"`
}

var infoCmd = &cobra.Command{
	Use:   "info <book.epub>",
	Short: "Show the structure of an EPUB file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := epub.Open(args[0])
		if err != nil {
			return err
		}

		info := bookInfo{
			Title:           book.Metadata.Title,
			Author:          book.Metadata.Author,
			Identifier:      book.Metadata.Identifier,
			Language:        book.Metadata.Language,
			Chapters:        len(book.Chapters),
			TotalParagraphs: book.TotalParagraphs(),
		}
		for _, ch := range book.Chapters {
			info.ChapterList = append(info.ChapterList, chapterInfo{
				Title:      ch.Title,
				Href:       ch.Href,
				Paragraphs: len(ch.Paragraphs),
			})
		}
		return api.Output(info)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
