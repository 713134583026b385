// Package i18n provides the display-language dictionaries used by the
// console frontend. The engine itself is language-neutral; only rendered
// text goes through a dictionary.
package i18n

import (
	"fmt"
	"strings"
)

// Language identifies a supported display language.
type Language string

const (
	// Chinese is the default display language.
	Chinese Language = "zh"

	// English display language.
	English Language = "en"
)

// Parse converts a language selector string to a Language.
// Returns false when the selector is not recognized.
func Parse(s string) (Language, bool) {
	switch strings.ToLower(s) {
	case "zh", "chinese":
		return Chinese, true
	case "en", "english":
		return English, true
	default:
		return "", false
	}
}

// Dict holds the fixed strings for one language.
type Dict struct {
	Lang Language

	Title           string
	StatusPreparing string
	StatusComplete  string
	StatusFailed    string
	ButtonOK        string
}

var chinese = Dict{
	Lang:            Chinese,
	Title:           "软件更新",
	StatusPreparing: "正在准备更新...",
	StatusComplete:  "软件更新已完成！",
	StatusFailed:    "软件更新失败！",
	ButtonOK:        "确定",
}

var english = Dict{
	Lang:            English,
	Title:           "Software Update",
	StatusPreparing: "Preparing update...",
	StatusComplete:  "Software update completed!",
	StatusFailed:    "Software update failed!",
	ButtonOK:        "OK",
}

// Get returns the dictionary for the given language.
func Get(lang Language) *Dict {
	if lang == English {
		return &english
	}
	return &chinese
}

// StatusExtracting returns the extraction-stage status line.
func (d *Dict) StatusExtracting() string {
	if d.Lang == English {
		return "Extracting update package..."
	}
	return "正在解压更新包..."
}

// StatusCopying returns the copy-stage status line.
func (d *Dict) StatusCopying() string {
	if d.Lang == English {
		return "Copying files..."
	}
	return "正在复制文件..."
}

// StatusProcessing returns the per-file status line.
func (d *Dict) StatusProcessing(name string) string {
	if d.Lang == English {
		return fmt.Sprintf("Processing: %s", name)
	}
	return fmt.Sprintf("正在处理: %s", name)
}

// StatusStartingIn returns the pre-run delay countdown line.
func (d *Dict) StatusStartingIn(seconds uint64) string {
	if d.Lang == English {
		return fmt.Sprintf("Starting in %d seconds...", seconds)
	}
	return fmt.Sprintf("%d 秒后开始更新...", seconds)
}

// StatusReplacing returns the file-replacement counter line.
func (d *Dict) StatusReplacing(current, total int) string {
	if d.Lang == English {
		return fmt.Sprintf("Replacing files (%d/%d)...", current, total)
	}
	return fmt.Sprintf("正在替换文件 (%d/%d)...", current, total)
}
