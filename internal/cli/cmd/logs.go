package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/tilegrid/internal/cli/styles"
	"github.com/bnema/tilegrid/internal/logging"
)

const defaultLogsLines = 50

var (
	logsLines     int
	logsClearAll  bool
	logsClearDays int
)

var logsCmd = &cobra.Command{
	Use:   "logs [session]",
	Short: "View session logs",
	Long: `View tilegrid logs by session.

Without arguments, lists all available sessions.
With a session ID (or partial match), shows the end of that session's log.

Examples:
  tilegrid logs               # List all sessions
  tilegrid logs a7b3          # View logs for session ending in 'a7b3'
  tilegrid logs -n 100 a7b3   # Show last 100 lines`,
	RunE: runLogs,
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove old session logs",
	Long:  `Remove session logs older than --days (default 7). Use --all to remove every session log.`,
	RunE:  runLogsClear,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsClearCmd)
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", defaultLogsLines, "number of lines to show")
	logsClearCmd.Flags().BoolVar(&logsClearAll, "all", false, "remove all session logs")
	logsClearCmd.Flags().IntVar(&logsClearDays, "days", 7, "remove logs older than this many days")
}

// SessionInfo holds metadata about a session log file.
type SessionInfo struct {
	SessionID string
	Path      string
	Size      int64
	ModTime   time.Time
}

// ShortID is the random suffix of the session id.
func (s SessionInfo) ShortID() string {
	if i := strings.LastIndexByte(s.SessionID, '_'); i >= 0 {
		return s.SessionID[i+1:]
	}
	return s.SessionID
}

func runLogs(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	logDir, err := app.Config.ResolveLogDir()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	sessions, err := getSessions(logDir)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		listSessions(out, sessions, app.Theme)
		return nil
	}

	session, err := findSession(sessions, args[0])
	if err != nil {
		return err
	}
	return showSession(out, session.Path, logsLines, app.Theme)
}

// getSessions returns all session log files, newest first.
func getSessions(logDir string) ([]SessionInfo, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var sessions []SessionInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := logging.ParseSessionFilename(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sessions = append(sessions, SessionInfo{
			SessionID: id,
			Path:      filepath.Join(logDir, entry.Name()),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ModTime.After(sessions[j].ModTime)
	})
	return sessions, nil
}

func listSessions(out io.Writer, sessions []SessionInfo, theme *styles.Theme) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, theme.Subtle.Render("No sessions found. Run 'tilegrid run' to create logs."))
		return
	}

	fmt.Fprintln(out, theme.Title.Render("Sessions (newest first):"))
	fmt.Fprintln(out)
	for _, s := range sessions {
		fmt.Fprintf(out, "  %s  %s  %s\n",
			theme.Highlight.Render(s.ShortID()),
			theme.Subtle.Render(s.ModTime.Format("2006-01-02 15:04:05")),
			theme.Subtle.Render("("+formatSize(s.Size)+")"),
		)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Subtle.Render("Use 'tilegrid logs <id>' to view a session"))
}

// findSession matches query against short ids first, then any part of the
// full id.
func findSession(sessions []SessionInfo, query string) (SessionInfo, error) {
	if len(sessions) == 0 {
		return SessionInfo{}, fmt.Errorf("no sessions found")
	}
	q := strings.ToLower(strings.TrimSpace(query))

	for _, s := range sessions {
		if strings.EqualFold(s.ShortID(), q) {
			return s, nil
		}
	}

	var matches []SessionInfo
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.SessionID), q) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return SessionInfo{}, fmt.Errorf("no session matching '%s' found", query)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, m.ShortID())
		}
		return SessionInfo{}, fmt.Errorf("multiple sessions match '%s': %s", query, strings.Join(ids, ", "))
	}
}

// showSession prints the last lines of a session log.
func showSession(out io.Writer, logPath string, lines int, theme *styles.Theme) (retErr error) {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close log file: %w", closeErr)
		}
	}()

	var all []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		all = append(all, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	start := max(len(all)-lines, 0)
	for _, line := range all[start:] {
		fmt.Fprintln(out, colorizeLogLine(line, theme))
	}
	return nil
}

type logEntry struct {
	Level     string `json:"level"`
	Time      string `json:"time"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

func colorizeLogLine(line string, theme *styles.Theme) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err == nil && entry.Message != "" {
		return formatJSONLogLine(entry, theme)
	}

	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "ERR"):
		return theme.ErrorStyle.Render(line)
	case strings.Contains(upper, "WRN"), strings.Contains(upper, "WARN"):
		return theme.WarningStyle.Render(line)
	case strings.Contains(upper, "DBG"):
		return theme.Subtle.Render(line)
	default:
		return line
	}
}

func formatJSONLogLine(entry logEntry, theme *styles.Theme) string {
	timeStr := entry.Time
	if t, err := time.Parse(time.RFC3339, entry.Time); err == nil {
		timeStr = t.Format("15:04:05")
	}

	var level string
	switch entry.Level {
	case "error":
		level = theme.ErrorStyle.Render("ERR")
	case "warn":
		level = theme.WarningStyle.Render("WRN")
	case "info":
		level = theme.Highlight.Render("INF")
	case "debug":
		level = theme.Subtle.Render("DBG")
	case "trace":
		level = theme.Subtle.Render("TRC")
	default:
		level = entry.Level
	}

	msg := entry.Message
	if entry.Component != "" {
		msg = theme.Subtle.Render(entry.Component+":") + " " + msg
	}
	return fmt.Sprintf("%s %s %s", theme.Subtle.Render(timeStr), level, msg)
}

func runLogsClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	logDir, err := app.Config.ResolveLogDir()
	if err != nil {
		return err
	}
	sessions, err := getSessions(logDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cutoff := time.Now().AddDate(0, 0, -logsClearDays)
	removed := clearSessions(out, sessions, func(s SessionInfo) bool {
		return logsClearAll || s.ModTime.Before(cutoff)
	}, app.Theme)

	if removed == 0 {
		fmt.Fprintln(out, app.Theme.Subtle.Render("No logs to clear"))
		return nil
	}
	fmt.Fprintf(out, "\n%s\n", app.Theme.SuccessStyle.Render(fmt.Sprintf("Cleared %d session(s)", removed)))
	return nil
}

func clearSessions(out io.Writer, sessions []SessionInfo, remove func(SessionInfo) bool, theme *styles.Theme) int {
	removed := 0
	for _, s := range sessions {
		if !remove(s) {
			continue
		}
		if err := os.Remove(s.Path); err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", theme.ErrorStyle.Render(styles.IconX), s.ShortID(), err)
			continue
		}
		fmt.Fprintf(out, "%s %s (%s)\n", theme.SuccessStyle.Render(styles.IconCheck), s.ShortID(), formatSize(s.Size))
		removed++
	}
	return removed
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
