package drivers

import (
	"fmt"
	"strings"
)

// Channel identifies the NVIDIA release channel a driver was published on.
type Channel int

const (
	// ChannelGameReady is the Game Ready driver branch.
	ChannelGameReady Channel = iota
	// ChannelStudio is the Studio (creator) driver branch.
	ChannelStudio
)

func (c Channel) String() string {
	switch c {
	case ChannelStudio:
		return "Studio"
	default:
		return "Game Ready"
	}
}

// ParseChannel accepts config spellings (game_ready, studio) as well as the
// display labels.
func ParseChannel(value string) (Channel, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch normalized {
	case "game_ready", "gameready", "grd":
		return ChannelGameReady, nil
	case "studio", "sd", "crd":
		return ChannelStudio, nil
	default:
		return ChannelGameReady, fmt.Errorf("unknown driver channel %q", value)
	}
}

// Key uniquely identifies a merged driver record.
type Key struct {
	Version string
	DCH     bool
	Channel Channel
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Version, architecture(k.DCH), k.Channel)
}

// Record is one driver release as it appears in the report. Empty URL fields
// mean the link is absent.
type Record struct {
	Version     string
	ReleaseDate string
	Channel     Channel
	DCH         bool
	DesktopURL  string
	NotebookURL string
}

// Key returns the merge key for the record.
func (r Record) Key() Key {
	return Key{Version: r.Version, DCH: r.DCH, Channel: r.Channel}
}

// Architecture reports the packaging label, DCH or Standard.
func (r Record) Architecture() string {
	return architecture(r.DCH)
}

// HasDownloads reports whether at least one download link is present.
func (r Record) HasDownloads() bool {
	return r.DesktopURL != "" || r.NotebookURL != ""
}

func architecture(dch bool) string {
	if dch {
		return "DCH"
	}
	return "Standard"
}
