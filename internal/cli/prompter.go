package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/veldbooks/veld/internal/reclassify"
	"github.com/veldbooks/veld/internal/reconcile"
)

// Prompter runs the interactive review flow for bulk reclassification
// proposals.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter over the given streams. Nil streams default
// to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// ReviewProposal presents a proposal and records the operator's decision on
// it. The proposal transitions to confirmed or rejected; applying a confirmed
// proposal is the caller's responsibility.
func (p *Prompter) ReviewProposal(ctx context.Context, proposal *reclassify.Proposal, accountName string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Target account: %s (%s)\n", accountName, proposal.AccountCode)
	fmt.Fprintf(&b, "Key pattern:    %s\n", proposal.KeyPattern)
	fmt.Fprintf(&b, "Transactions:   %d\n\n", len(proposal.TransactionIDs))
	for i, desc := range proposal.Descriptions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, desc)
	}

	if _, err := fmt.Fprintln(p.writer, RenderBox("Bulk Reclassification", b.String())); err != nil {
		return fmt.Errorf("failed to write proposal: %w", err)
	}

	choice, err := p.promptChoice(ctx, "Apply to all? [y/n]", []string{"y", "n"})
	if err != nil {
		return err
	}

	switch choice {
	case "y":
		if err := proposal.Confirm(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(p.writer, FormatSuccess("Proposal confirmed"))
	case "n":
		if err := proposal.Reject(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(p.writer, FormatWarning("Proposal rejected; transactions stay flagged for review"))
	}
	return nil
}

// promptChoice loops until the operator enters one of the valid choices.
func (p *Prompter) promptChoice(ctx context.Context, prompt string, valid []string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		for _, v := range valid {
			if choice == v {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatWarning("Please enter one of: "+strings.Join(valid, ", "))); err != nil {
			return "", fmt.Errorf("failed to write retry message: %w", err)
		}
	}
}

// RenderConflictReport formats a reconciliation conflict report for the
// terminal. An empty report renders a success line.
func RenderConflictReport(report reconcile.ConflictReport) string {
	if report.Empty() {
		return FormatSuccess("No rule conflicts")
	}

	var b strings.Builder
	for _, c := range report.Conflicts {
		switch c.Kind {
		case reconcile.ConflictDuplicateName:
			fmt.Fprintf(&b, "  %s %s: duplicate name (standard → %s, persisted → %s)\n",
				WarningIcon, c.RuleName, c.StandardCode, c.PersistedCode)
		default:
			fmt.Fprintf(&b, "  %s %s: %s (%s)\n", WarningIcon, c.RuleName, c.Kind, c.Detail)
		}
	}
	return RenderBox(fmt.Sprintf("Rule Conflicts (%d)", len(report.Conflicts)), b.String())
}
