package buildinfo

import "runtime/debug"

// Injectées à la compilation:
//
//	-X github.com/church-livestream/cls/internal/buildinfo.Version=v1.4.0
//	-X github.com/church-livestream/cls/internal/buildinfo.Commit=abcdef
//	-X github.com/church-livestream/cls/internal/buildinfo.Date=2026-10-01
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

// Current complète le commit depuis les infos VCS du binaire si -ldflags ne l'a pas fourni.
func Current() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		}
	}
	return info
}
