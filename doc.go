// Package hotpaste routes clipboard content into a destination application.
//
// A single trigger captures a snapshot of the clipboard (plain text plus an
// optional CF_HTML payload), classifies the content, and runs exactly one of
// five workflows: insert a parsed table into a spreadsheet, convert HTML or
// Markdown to DOCX and insert it into a word processor, or generate a file
// and open it with the default application when no target is detected.
//
// # Quick Start
//
// Create a service, wire the collaborators, and fire a trigger:
//
//	svc := hotpaste.New(
//	    hotpaste.WithConverter(hotpaste.NewPandocConverter("pandoc")),
//	    hotpaste.WithLauncher(launcher),
//	    hotpaste.WithNotifier(notifier),
//	)
//	outcome := svc.Trigger(ctx, detector.Detect())
//
// Trigger never returns an error and never panics past its boundary: every
// collaborator failure is converted into a WorkflowOutcome and reported
// through the Notifier, exactly once per trigger.
//
// # Routing Pipeline
//
// The decision process follows these stages:
//
//  1. Clipboard snapshot (empty check, CF_HTML availability with bounded retry)
//  2. CF_HTML fragment extraction and sanitization (SVG stripping, UTF-8 shell)
//  3. Plain-Markdown-wrapper classification of HTML fragments
//  4. Markdown normalization and pipe-table detection
//  5. One of five workflows, selected by content type and detected target
//
// # Collaborators
//
// Conversion is delegated to an external engine (pandoc by default, piped
// in-memory), insertion and window detection are host-specific and injected
// via the Converter, Inserter, TableInserter, Launcher and Detector
// interfaces. Tests can replace any of them through functional options.
package hotpaste
