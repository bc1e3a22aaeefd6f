package hotpaste

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// notificationTitle heads every user-visible notification.
const notificationTitle = "Hotpaste"

// Inserter places a converted document at the active cursor of a word
// processor. False without an error means the app was not ready (no open
// document or cursor); both false and an error are soft failures.
type Inserter interface {
	Insert(ctx context.Context, documentPath string) (bool, error)
}

// TableInserter places a parsed grid into the active spreadsheet.
type TableInserter interface {
	InsertTable(ctx context.Context, grid TableGrid, keepFormat bool) (bool, error)
}

// Launcher opens a generated file with the platform default application.
type Launcher interface {
	OpenDocument(ctx context.Context, path string) error
}

// SpreadsheetWriter renders a grid to a spreadsheet file on disk.
type SpreadsheetWriter interface {
	Write(grid TableGrid, path string) error
	// Ext is the file extension the writer produces, without the dot.
	Ext() string
}

// Notifier reports the terminal outcome of one trigger to the user.
type Notifier interface {
	Notify(outcome WorkflowOutcome)
}

// Detector identifies the application that currently has focus.
type Detector interface {
	Detect() Target
}

// StaticDetector always reports the same target; used by the CLI and tests.
type StaticDetector Target

func (d StaticDetector) Detect() Target { return Target(d) }

// logNotifier is the default Notifier: outcomes go to the structured log.
type logNotifier struct {
	log *zap.Logger
}

func (n logNotifier) Notify(o WorkflowOutcome) {
	if o.OK {
		n.log.Info("notification", zap.String("title", o.Title), zap.String("message", o.Message))
		return
	}
	n.log.Warn("notification", zap.String("title", o.Title), zap.String("message", o.Message))
}

// Service orchestrates the clipboard routing pipeline. All collaborators are
// injected via options; a Service is safe for concurrent triggers because
// every run owns its snapshot, decision, and outcome exclusively.
type Service struct {
	cfg            serviceConfig
	log            *zap.Logger
	clipboard      ClipboardReader
	converter      Converter
	notifier       Notifier
	launcher       Launcher
	sheets         SpreadsheetWriter
	wordInserters  map[Target]Inserter
	tableInserters map[Target]TableInserter
}

// New creates a Service with default configuration: system clipboard, pandoc
// from PATH, CSV spreadsheet output, OS default-application launcher, and
// log-only notifications.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:         defaultTimeout,
			excelEnabled:    true,
			excelKeepFormat: true,
			autoOpen:        true,
		},
		log:            zap.NewNop(),
		wordInserters:  make(map[Target]Inserter),
		tableInserters: make(map[Target]TableInserter),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Fill collaborators not injected (e.g., by tests).
	if s.clipboard == nil {
		s.clipboard = NewSystemClipboard()
	}
	if s.converter == nil {
		s.converter = NewPandocConverter("")
	}
	if s.notifier == nil {
		s.notifier = logNotifier{log: s.log}
	}
	if s.launcher == nil {
		s.launcher = osLauncher{}
	}
	if s.sheets == nil {
		s.sheets = csvWriter{}
	}
	if s.cfg.saveDir == "" {
		s.cfg.saveDir = defaultSaveDir()
	}
	return s
}

// defaultSaveDir is ~/Documents/hotpaste, or the system temp dir when the
// home directory cannot be resolved.
func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "hotpaste")
	}
	return filepath.Join(home, "Documents", "hotpaste")
}

// Trigger runs one full pipeline pass: snapshot, decide, execute. It never
// returns an error and never lets a panic escape; every failure becomes a
// WorkflowOutcome, and exactly one notification is emitted per call.
func (s *Service) Trigger(ctx context.Context, target Target) (outcome WorkflowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("trigger panicked", zap.Any("panic", r), zap.Stack("stack"))
			outcome = failureOutcome("Conversion failed, see the log for details.")
		}
		s.notifier.Notify(outcome)
	}()

	snapshot, err := CaptureSnapshot(s.clipboard)
	if err != nil {
		s.log.Error("clipboard capture failed", zap.Error(err))
		return failureOutcome("Could not read the clipboard.")
	}

	decision := s.Decide(snapshot, target)
	s.log.Info("routing decision",
		zap.Stringer("workflow", decision.Kind),
		zap.String("target", string(decision.Target)),
		zap.Bool("html", snapshot.HasHTML))

	return s.Execute(ctx, decision)
}

// Decide maps a snapshot and a detected target to exactly one workflow.
// Pure with respect to collaborators: no conversion, insertion, or I/O
// happens here.
func (s *Service) Decide(snapshot ClipboardSnapshot, target Target) RoutingDecision {
	if snapshot.Empty {
		return RoutingDecision{Kind: DecisionReject, Err: ErrEmptyClipboard}
	}

	switch {
	case target.WordFamily():
		if snapshot.HasHTML {
			fragment := ExtractFragment(snapshot.HTML)
			if !s.classifier().IsPlainMarkdownWrapper(fragment) {
				return RoutingDecision{
					Kind:     DecisionHTMLToWord,
					Target:   target,
					Fragment: SanitizeFragment(fragment, true),
				}
			}
		}
		return RoutingDecision{
			Kind:     DecisionMarkdownToWord,
			Target:   target,
			Markdown: s.prepareMarkdown(snapshot),
		}

	case target.SpreadsheetFamily() && s.cfg.excelEnabled:
		if grid, ok := s.probeTable(snapshot); ok {
			return RoutingDecision{Kind: DecisionExcelInsert, Target: target, Grid: grid}
		}
		return RoutingDecision{Kind: DecisionReject, Target: target, Err: ErrInvalidTable}

	default:
		// No supported app in focus (or spreadsheet routing disabled).
		if !s.cfg.autoOpen {
			return RoutingDecision{Kind: DecisionReject, Err: ErrNoTargetApp}
		}
		if s.cfg.excelEnabled {
			if grid, ok := s.probeTable(snapshot); ok {
				return RoutingDecision{Kind: DecisionOpenSpreadsheet, Grid: grid}
			}
		}
		return RoutingDecision{Kind: DecisionOpenDocument, Markdown: s.prepareMarkdown(snapshot)}
	}
}

// Execute runs the selected workflow to its terminal outcome. No error
// escapes: collaborator failures are logged and converted to outcomes.
func (s *Service) Execute(ctx context.Context, decision RoutingDecision) WorkflowOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	switch decision.Kind {
	case DecisionExcelInsert:
		return s.execExcelInsert(ctx, decision)
	case DecisionHTMLToWord:
		return s.execHTMLToWord(ctx, decision)
	case DecisionMarkdownToWord:
		return s.execMarkdownToWord(ctx, decision)
	case DecisionOpenDocument:
		return s.execOpenDocument(ctx, decision)
	case DecisionOpenSpreadsheet:
		return s.execOpenSpreadsheet(ctx, decision)
	}
	return s.rejectOutcome(decision)
}

func (s *Service) classifier() classifier {
	return classifier{hintThreshold: s.cfg.hintThreshold}
}

// prepareMarkdown resolves the Markdown payload for a text-based workflow
// and normalizes it: plain text preferred, HTML downgraded when the text
// format is blank, then block spacing and LaTeX delimiters fixed up.
func (s *Service) prepareMarkdown(snapshot ClipboardSnapshot) string {
	text := snapshot.Text
	if strings.TrimSpace(text) == "" && snapshot.HasHTML {
		if md, err := downgradeHTML(ExtractFragment(snapshot.HTML)); err == nil {
			text = md
		}
	}
	return ConvertLaTeXDelimiters(NormalizeMarkdown(text))
}

// probeTable looks for a pipe table in the plain text first, then in the
// HTML payload downgraded to Markdown.
func (s *Service) probeTable(snapshot ClipboardSnapshot) (TableGrid, bool) {
	if grid, ok := ParseTable(snapshot.Text); ok {
		return grid, true
	}
	if snapshot.HasHTML {
		if md, err := downgradeHTML(ExtractFragment(snapshot.HTML)); err == nil {
			if grid, ok := ParseTable(md); ok {
				return grid, true
			}
		}
	}
	return nil, false
}

// rejectOutcome maps a terminal reject to its user-visible failure message.
func (s *Service) rejectOutcome(decision RoutingDecision) WorkflowOutcome {
	switch decision.Err {
	case ErrEmptyClipboard:
		return failureOutcome("Clipboard is empty, nothing to process.")
	case ErrInvalidTable:
		return failureOutcome(fmt.Sprintf("No valid Markdown table detected.\nActive application: %s", decision.Target.DisplayName()))
	case ErrNoTargetApp:
		return failureOutcome("No supported application detected. Open a word processor or spreadsheet, or enable auto-open.")
	}
	return failureOutcome("Conversion failed, see the log for details.")
}

func (s *Service) execExcelInsert(ctx context.Context, decision RoutingDecision) WorkflowOutcome {
	app := decision.Target.DisplayName()
	inserter := s.tableInserters[decision.Target]
	if inserter == nil {
		s.log.Warn("no table inserter registered", zap.String("target", string(decision.Target)))
		return failureOutcome(fmt.Sprintf("Inserting into %s is not available.", app))
	}

	inserted, err := inserter.InsertTable(ctx, decision.Grid, s.cfg.excelKeepFormat)
	if err != nil {
		s.log.Warn("table insertion failed", zap.String("target", string(decision.Target)),
			zap.Error(fmt.Errorf("%w: %v", ErrInsertionFailed, err)))
		return failureOutcome(fmt.Sprintf("Could not insert into %s.\n%v", app, err))
	}
	if !inserted {
		return failureOutcome(fmt.Sprintf("Could not insert into %s. Make sure it is open with a document active.", app))
	}
	return successOutcome(fmt.Sprintf("Inserted %d table rows into %s.", len(decision.Grid), app))
}

func (s *Service) execHTMLToWord(ctx context.Context, decision RoutingDecision) WorkflowOutcome {
	document, err := s.converter.ConvertHTML(ctx, decision.Fragment.Sanitized, s.cfg.referenceDoc)
	if err != nil {
		s.log.Error("html conversion failed", zap.Error(err))
		return failureOutcome("HTML conversion failed, check the content format.")
	}

	inserted := s.insertDocument(ctx, decision.Target, document)
	s.persistArtifact(document, "")

	app := decision.Target.DisplayName()
	if !inserted {
		return failureOutcome(fmt.Sprintf("Could not insert into %s. Make sure it is open with a cursor in a document.", app))
	}
	return successOutcome(fmt.Sprintf("Inserted web content into %s.", app))
}

func (s *Service) execMarkdownToWord(ctx context.Context, decision RoutingDecision) WorkflowOutcome {
	document, err := s.converter.ConvertMarkdown(ctx, decision.Markdown, s.cfg.referenceDoc)
	if err != nil {
		s.log.Error("markdown conversion failed", zap.Error(err))
		return failureOutcome("Markdown conversion failed, check the content format.")
	}

	inserted := s.insertDocument(ctx, decision.Target, document)
	s.persistArtifact(document, decision.Markdown)

	app := decision.Target.DisplayName()
	if !inserted {
		return failureOutcome(fmt.Sprintf("Could not insert into %s. Make sure it is open with a cursor in a document.", app))
	}
	return successOutcome(fmt.Sprintf("Inserted into %s.", app))
}

func (s *Service) execOpenDocument(ctx context.Context, decision RoutingDecision) WorkflowOutcome {
	document, err := s.converter.ConvertMarkdown(ctx, decision.Markdown, s.cfg.referenceDoc)
	if err != nil {
		s.log.Error("markdown conversion failed", zap.Error(err))
		return failureOutcome("Markdown conversion failed, check the content format.")
	}

	path, err := GenerateOutputPath(s.cfg.saveDir, decision.Markdown, nil, "docx")
	if err == nil {
		err = os.WriteFile(path, document, 0o600)
	}
	if err != nil {
		s.log.Error("writing generated document failed", zap.Error(err))
		return failureOutcome("Generating the document failed.")
	}

	if err := s.launcher.OpenDocument(ctx, path); err != nil {
		s.log.Warn("opening generated document failed", zap.String("path", path), zap.Error(err))
		return failureOutcome(fmt.Sprintf("Document generated but could not be opened.\nPath: %s", path))
	}
	return successOutcome(fmt.Sprintf("Document generated and opened with the default application.\nPath: %s", path))
}

func (s *Service) execOpenSpreadsheet(ctx context.Context, decision RoutingDecision) WorkflowOutcome {
	path, err := GenerateOutputPath(s.cfg.saveDir, "", decision.Grid, s.sheets.Ext())
	if err == nil {
		err = s.sheets.Write(decision.Grid, path)
	}
	if err != nil {
		s.log.Error("writing generated spreadsheet failed", zap.Error(err))
		return failureOutcome("Generating the spreadsheet failed.")
	}

	rows := len(decision.Grid)
	if err := s.launcher.OpenDocument(ctx, path); err != nil {
		s.log.Warn("opening generated spreadsheet failed", zap.String("path", path), zap.Error(err))
		return failureOutcome(fmt.Sprintf("Table generated but could not be opened.\nPath: %s", path))
	}
	return successOutcome(fmt.Sprintf("Table generated (%d rows) and opened with the default application.\nPath: %s", rows, path))
}

// insertDocument writes the converted buffer to an ephemeral file and hands
// it to the registered inserter. Both inserter errors and a not-ready app
// are soft failures; the temp file is removed on every path.
func (s *Service) insertDocument(ctx context.Context, target Target, document []byte) bool {
	path, cleanup, err := writeTempDocument(s.cfg.tempDir, document)
	if err != nil {
		s.log.Error("writing temp document failed", zap.Error(err))
		return false
	}
	defer cleanup()

	inserter := s.wordInserters[target]
	if inserter == nil {
		s.log.Warn("no inserter registered", zap.String("target", string(target)))
		return false
	}

	inserted, err := inserter.Insert(ctx, path)
	if err != nil {
		s.log.Warn("insertion failed", zap.String("target", string(target)),
			zap.Error(fmt.Errorf("%w: %v", ErrInsertionFailed, err)))
		return false
	}
	return inserted
}

// persistArtifact saves the converted buffer to the save directory when
// keep-file is enabled. Failures are logged, never fatal to the trigger.
func (s *Service) persistArtifact(document []byte, markdown string) {
	if !s.cfg.keepFile {
		return
	}
	path, err := GenerateOutputPath(s.cfg.saveDir, markdown, nil, "docx")
	if err == nil {
		err = os.WriteFile(path, document, 0o600)
	}
	if err != nil {
		s.log.Warn("saving document failed", zap.Error(err))
		return
	}
	s.log.Info("saved document", zap.String("path", path))
}

// writeTempDocument creates an ephemeral file holding the converted buffer.
// Returns the file path and a cleanup function to remove the file.
func writeTempDocument(dir string, document []byte) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp(dir, "hotpaste-*.docx")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := tmpFile.Write(document); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}

	return path, cleanup, nil
}

func successOutcome(message string) WorkflowOutcome {
	return WorkflowOutcome{OK: true, Title: notificationTitle, Message: message}
}

func failureOutcome(message string) WorkflowOutcome {
	return WorkflowOutcome{OK: false, Title: notificationTitle, Message: message}
}
