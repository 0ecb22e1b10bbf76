package report

import (
	"strings"

	"golang.org/x/text/language"
)

// Labels holds the human-readable strings of the report.
type Labels struct {
	UpdatedAt      string
	NoDrivers      string
	CountFormat    string
	Desktop        string
	Notebook       string
	DesktopLink    string
	NotebookLink   string
	PlatformJoiner string
}

var chineseLabels = Labels{
	UpdatedAt:      "更新时间",
	NoDrivers:      "未找到驱动信息。",
	CountFormat:    "共找到 %d 个版本（已合并双端及 Studio 数据）。",
	Desktop:        "台式机",
	Notebook:       "笔记本",
	DesktopLink:    "台式机下载",
	NotebookLink:   "笔记本下载",
	PlatformJoiner: " & ",
}

var englishLabels = Labels{
	UpdatedAt:      "Updated",
	NoDrivers:      "No driver information found.",
	CountFormat:    "Found %d versions (desktop and notebook, Game Ready and Studio merged).",
	Desktop:        "Desktop",
	Notebook:       "Notebook",
	DesktopLink:    "Desktop download",
	NotebookLink:   "Notebook download",
	PlatformJoiner: " & ",
}

var labelTags = []language.Tag{language.SimplifiedChinese, language.English}

var labelSets = []Labels{chineseLabels, englishLabels}

var labelMatcher = language.NewMatcher(labelTags)

// LabelsFor picks the label set that best matches locale. Chinese is the
// fallback for empty or unrecognized locales.
func LabelsFor(locale string) Labels {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return chineseLabels
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return chineseLabels
	}
	_, index, confidence := labelMatcher.Match(tag)
	if confidence == language.No {
		return chineseLabels
	}
	want, _ := tag.Base()
	got, _ := labelTags[index].Base()
	if want != got {
		return chineseLabels
	}
	return labelSets[index]
}
