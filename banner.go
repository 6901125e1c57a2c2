package rtkaller

import "github.com/sirupsen/logrus"

// banner is the startup ASCII banner, grounded on rtk_erika.rs's own
// startup print (SPEC_FULL.md supplemented feature #8). Kept deliberately
// plain ASCII so it renders identically over a serial/telnet log target.
const banner = `
 ___   _____ _  __     _ _
|  _| |_   _| |/ /__ _| | | ___ _ __
| |_ ____| | | ' // _` + "`" + ` | | |/ _ \ '__|
|  _|_____| | | .\ (_| | | |  __/ |
|_|         |_| |_|\_\__,_|_|_|\___|_|
`

// logBanner writes the startup banner and the resolved run identity at INFO
// level, matching the teacher's startup-log convention.
func logBanner(log *logrus.Entry, runID string) {
	for _, line := range splitLines(banner) {
		log.Info(line)
	}
	log.WithField("run_id", runID).Info("rtkaller starting")
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
