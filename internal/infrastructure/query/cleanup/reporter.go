// Package cleanup provides ascii reporter
package cleanup

import (
	"fmt"
	"strings"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
)

const (
	cyan        = "\033[38;2;86;182;194m"  // One Dark Cyan: #56B6C2
	cyanBright  = "\033[38;2;97;228;240m"  // Brighter Cyan: #61E4F0
	dimCyan     = "\033[38;2;47;91;102m"   // Dim Cyan: #2F5B66
	grey        = "\033[38;2;110;118;129m" // Brighter Grey: #6E7681
	dimGrey     = "\033[38;2;75;82;99m"    // Darker Grey: #4B5263
	success     = "\033[38;2;62;130;144m"  // Dim Cyan: #3E8290
	warning     = "\033[38;2;229;192;123m" // One Dark Yellow: #E5C07B
	errorRed    = "\033[38;2;224;108;117m" // One Dark Red: #E06C75
	white       = "\033[38;2;171;178;191m" // One Dark Foreground: #ABB2BF
	whiteBright = "\033[38;2;220;225;230m" // Brighter White
	purple      = "\033[38;2;198;120;221m" // One Dark Purple: #C678DD
	dimPurple   = "\033[38;2;142;87;158m"  // Dim Purple: #8E579E
	reset       = "\033[0m"
	bold        = "\033[1m"
)

type Reporter struct {
	cache *query.Cache
}

func NewReporter(cache *query.Cache) *Reporter {
	return &Reporter{cache: cache}
}

func (r *Reporter) LogStage(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Printf("%s%s✦ %s%s%s\n", success, bold, grey, formattedMsg, reset)
}

func (r *Reporter) LogSuccess(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Printf("%s%s✦ %s%s%s\n", success, bold, white, formattedMsg, reset)
}

func (r *Reporter) LogError(message string, err error) {
	fmt.Printf("%s%s✖ ERROR: %s%s: %v%s\n", bold, errorRed, grey, message, err, reset)
}

func (r *Reporter) LogWarning(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Printf("%s%s⚠ WARNING: %s%s%s\n", bold, warning, grey, formattedMsg, reset)
}

func (r *Reporter) LogInfo(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Printf("%s▶ %s%s%s\n", dimGrey, grey, formattedMsg, reset)
}

// GenerateCacheReport renders a console snapshot of the query cache: entry
// population by state, effectiveness counters, and staleness.
func (r *Reporter) GenerateCacheReport() string {
	var report strings.Builder
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 MST")
	stats := r.cache.Stats()

	report.WriteString(fmt.Sprintf("%s%s▓ %s | Query Cache: %s%d entries%s %s\n",
		bold, dimCyan, timestamp, whiteBright, stats.Entries, reset, reset))

	// Effectiveness counters since process start
	var countersLine strings.Builder
	countersLine.WriteString(fmt.Sprintf("%s✦ counters:%s", cyanBright, reset))

	counters := []struct {
		name  string
		value int64
	}{
		{"hits", stats.Hits},
		{"misses", stats.Misses},
		{"revalidations", stats.Revalidations},
		{"errors", stats.Errors},
	}
	for _, c := range counters {
		countersLine.WriteString(" ")
		if c.value > 0 {
			countersLine.WriteString(fmt.Sprintf("%s%s:%s%d", dimCyan, c.name, cyan, c.value))
		} else {
			countersLine.WriteString(fmt.Sprintf("%s%s:%s--", dimGrey, c.name, dimGrey))
		}
	}
	report.WriteString(countersLine.String() + "\n")

	// Entry lifecycle states
	var statesLine strings.Builder
	statesLine.WriteString(fmt.Sprintf("%s✦ states:%s", purple, reset))

	stale := 0
	for _, snap := range r.cache.Entries() {
		if snap.Stale {
			stale++
		}
	}

	formatStateItem := func(label string, count int) string {
		if count > 0 {
			return fmt.Sprintf(" %s%s:%s%d", dimPurple, label, white, count)
		}
		return fmt.Sprintf(" %s%s:%s--", dimGrey, label, dimGrey)
	}

	for _, state := range []query.State{query.StateIdle, query.StateLoading, query.StateSuccess, query.StateError} {
		statesLine.WriteString(formatStateItem(string(state), stats.States[state]))
	}
	statesLine.WriteString(formatStateItem("stale", stale))

	report.WriteString(statesLine.String() + "\n")

	return report.String()
}
