package hotpaste

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Target identifies a destination application for an insertion.
type Target string

// Recognized insertion targets.
const (
	TargetNone     Target = ""
	TargetWord     Target = "word"
	TargetWPSWord  Target = "wps"
	TargetExcel    Target = "excel"
	TargetWPSExcel Target = "wps_excel"
)

// ParseTarget converts a target name to a Target.
// "none" and the empty string both map to TargetNone.
func ParseTarget(name string) (Target, error) {
	switch name {
	case "", "none":
		return TargetNone, nil
	case "word":
		return TargetWord, nil
	case "wps":
		return TargetWPSWord, nil
	case "excel":
		return TargetExcel, nil
	case "wps_excel":
		return TargetWPSExcel, nil
	}
	return TargetNone, fmt.Errorf("unknown target %q", name)
}

// WordFamily reports whether t is a word-processor target.
func (t Target) WordFamily() bool {
	return t == TargetWord || t == TargetWPSWord
}

// SpreadsheetFamily reports whether t is a spreadsheet target.
func (t Target) SpreadsheetFamily() bool {
	return t == TargetExcel || t == TargetWPSExcel
}

// DisplayName returns the user-facing application name for notifications.
func (t Target) DisplayName() string {
	switch t {
	case TargetWord:
		return "Word"
	case TargetWPSWord:
		return "WPS Writer"
	case TargetExcel:
		return "Excel"
	case TargetWPSExcel:
		return "WPS Spreadsheets"
	}
	return "none"
}

// ClipboardSnapshot is a consistent view of the clipboard captured once per
// trigger. It is immutable after capture and discarded after one workflow run.
type ClipboardSnapshot struct {
	HasHTML bool   // a CF_HTML payload is available
	HTML    string // raw CF_HTML payload, empty when HasHTML is false
	Text    string // plain text content
	Empty   bool   // true iff Text is blank and no usable HTML exists
}

// HTMLFragment is an extracted CF_HTML fragment plus its sanitized form.
// Sanitized is always a standalone HTML document with a UTF-8 shell, with
// vector markup and vector image references removed.
type HTMLFragment struct {
	Raw       string
	Sanitized string
}

// TableGrid is a parsed Markdown pipe table: one slice of cell strings per
// row, header first, delimiter row already consumed. All rows have the same
// column count and there are at least two rows (header plus one data row).
type TableGrid [][]string

// DecisionKind enumerates the five workflows plus the terminal reject.
type DecisionKind int

// Workflow variants, mutually exclusive per trigger.
const (
	DecisionReject DecisionKind = iota
	DecisionExcelInsert
	DecisionHTMLToWord
	DecisionMarkdownToWord
	DecisionOpenDocument
	DecisionOpenSpreadsheet
)

// String returns the workflow name for logging.
func (k DecisionKind) String() string {
	switch k {
	case DecisionExcelInsert:
		return "excel-insert"
	case DecisionHTMLToWord:
		return "html-to-word"
	case DecisionMarkdownToWord:
		return "markdown-to-word"
	case DecisionOpenDocument:
		return "open-document"
	case DecisionOpenSpreadsheet:
		return "open-spreadsheet"
	}
	return "reject"
}

// RoutingDecision is produced once per trigger by Decide and consumed exactly
// once by Execute. Only the fields relevant to Kind are populated.
type RoutingDecision struct {
	Kind     DecisionKind
	Target   Target       // destination app for insert workflows
	Markdown string       // markdown-to-word and open-document payload
	Fragment HTMLFragment // html-to-word payload
	Grid     TableGrid    // excel-insert and open-spreadsheet payload
	Err      error        // reject cause, one of the sentinel errors
}

// WorkflowOutcome is the terminal result of one trigger, used only for the
// user-visible notification.
type WorkflowOutcome struct {
	OK      bool
	Title   string
	Message string
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout         time.Duration
	referenceDoc    string
	saveDir         string
	tempDir         string
	keepFile        bool
	excelEnabled    bool
	excelKeepFormat bool
	autoOpen        bool
	hintThreshold   int
}

// defaultTimeout bounds the external converter invocation.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-trigger timeout applied around Execute.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("hotpaste: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithReferenceDoc sets an optional converter style template path.
func WithReferenceDoc(path string) Option {
	return func(s *Service) {
		s.cfg.referenceDoc = path
	}
}

// WithSaveDir sets the directory for generated and persisted documents.
func WithSaveDir(dir string) Option {
	return func(s *Service) {
		s.cfg.saveDir = dir
	}
}

// WithTempDir sets the directory for ephemeral converter output files.
// Empty means the system default.
func WithTempDir(dir string) Option {
	return func(s *Service) {
		s.cfg.tempDir = dir
	}
}

// WithKeepFile persists converted documents to the save directory in
// addition to inserting them.
func WithKeepFile(keep bool) Option {
	return func(s *Service) {
		s.cfg.keepFile = keep
	}
}

// WithExcelEnabled toggles table detection for spreadsheet routing and
// whether inserted tables keep inline formatting.
func WithExcelEnabled(enabled, keepFormat bool) Option {
	return func(s *Service) {
		s.cfg.excelEnabled = enabled
		s.cfg.excelKeepFormat = keepFormat
	}
}

// WithAutoOpen toggles the no-app fallback that generates a file and opens
// it with the default application.
func WithAutoOpen(enabled bool) Option {
	return func(s *Service) {
		s.cfg.autoOpen = enabled
	}
}

// WithMarkdownHintThreshold tunes the plain-HTML classifier: the number of
// distinct Markdown syntax hints required to treat an unstructured fragment
// as Markdown text. The default is 2.
func WithMarkdownHintThreshold(n int) Option {
	return func(s *Service) {
		s.cfg.hintThreshold = n
	}
}

// WithLogger sets the structured logger. The default is zap.NewNop.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClipboard replaces the system clipboard backend.
func WithClipboard(r ClipboardReader) Option {
	return func(s *Service) {
		s.clipboard = r
	}
}

// WithConverter replaces the external document converter.
func WithConverter(c Converter) Option {
	return func(s *Service) {
		s.converter = c
	}
}

// WithNotifier replaces the outcome notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLauncher replaces the default-application launcher.
func WithLauncher(l Launcher) Option {
	return func(s *Service) {
		s.launcher = l
	}
}

// WithSpreadsheetWriter replaces the spreadsheet file generator.
func WithSpreadsheetWriter(w SpreadsheetWriter) Option {
	return func(s *Service) {
		s.sheets = w
	}
}

// WithWordInserter registers the document inserter for a word-family target.
func WithWordInserter(t Target, ins Inserter) Option {
	return func(s *Service) {
		s.wordInserters[t] = ins
	}
}

// WithTableInserter registers the grid inserter for a spreadsheet-family
// target.
func WithTableInserter(t Target, ins TableInserter) Option {
	return func(s *Service) {
		s.tableInserters[t] = ins
	}
}
