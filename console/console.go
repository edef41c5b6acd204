// Copyright (C) 2026, Custody Lab, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package console runs the interactive menu: display, read one choice,
// perform one action, repeat. Failures of individual actions are printed
// and the loop continues; only end of input, an interrupt, or the explicit
// exit choice stop it.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodylab/custodyctl/attach"
	"github.com/custodylab/custodyctl/custody"
)

const timestampLayout = "2006-01-02 15:04:05"

// Custodian is the slice of the custody client the menu drives.
type Custodian interface {
	Register(ctx context.Context, caseID, evidenceID, holderName, description, attachmentHash string) (*custody.Receipt, error)
	Transfer(ctx context.Context, caseID, evidenceID, newHolder, newHolderName, description string) (*custody.Receipt, error)
	Delete(ctx context.Context, caseID, evidenceID string) (*custody.Receipt, error)
	View(ctx context.Context, caseID, evidenceID string) (*custody.Evidence, error)
	History(ctx context.Context, caseID, evidenceID string) ([]custody.HistoryEntry, error)
	ListEvidenceIDs(ctx context.Context) ([]string, error)
}

// Console is the interactive menu over one custody session.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	client   Custodian
	uploader attach.Uploader

	// defaultRecipient pre-fills the transfer prompt; usually the second
	// account of the addressing file.
	defaultRecipient string
}

// New builds a console reading choices from [in] and printing to [out].
func New(in io.Reader, out io.Writer, client Custodian, uploader attach.Uploader, defaultRecipient string) *Console {
	return &Console{
		in:               bufio.NewScanner(in),
		out:              out,
		client:           client,
		uploader:         uploader,
		defaultRecipient: defaultRecipient,
	}
}

// Run loops until the exit choice, end of input, or context cancellation.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printMenu()

		choice, err := c.prompt("Choose an option: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.register(ctx)
		case "2":
			c.transfer(ctx)
		case "3":
			c.delete(ctx)
		case "4":
			c.view(ctx)
		case "5":
			c.history(ctx)
		case "6":
			c.listAll(ctx)
		case "0":
			fmt.Fprintln(c.out, "Exiting.")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please select a valid option.")
		}
	}
}

func (c *Console) printMenu() {
	fmt.Fprint(c.out, `
====================
Chain of Custody
====================
1. Register new evidence
2. Transfer evidence
3. Delete evidence
4. View evidence details
5. Get evidence history
6. List all evidence IDs
0. Exit
`)
}

// prompt prints [label] and reads one trimmed line. io.EOF when input ends.
func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// promptAll collects one answer per label, giving up on the first read error.
func (c *Console) promptAll(labels ...string) ([]string, error) {
	answers := make([]string, len(labels))
	for i, label := range labels {
		answer, err := c.prompt(label)
		if err != nil {
			return nil, err
		}
		answers[i] = answer
	}
	return answers, nil
}

func (c *Console) register(ctx context.Context) {
	in, err := c.promptAll(
		"Enter case ID: ",
		"Enter evidence ID: ",
		"Your holder name: ",
		"Evidence description: ",
		"Path to evidence file to upload: ",
	)
	if err != nil {
		return
	}

	hash, err := c.uploader.Upload(in[4])
	if err != nil {
		fmt.Fprintf(c.out, "Upload failed: %v\n", err)
		fmt.Fprintln(c.out, "Cannot register evidence without a stored attachment.")
		return
	}
	fmt.Fprintf(c.out, "File stored with content hash: %s\n", hash)

	receipt, err := c.client.Register(ctx, in[0], in[1], in[2], in[3], hash)
	if err != nil {
		fmt.Fprintf(c.out, "Error registering evidence: %v\n", err)
		return
	}
	c.printReceipt("Evidence registered", receipt)
}

func (c *Console) transfer(ctx context.Context) {
	recipientLabel := "Recipient address: "
	if c.defaultRecipient != "" {
		recipientLabel = fmt.Sprintf("Recipient address [%s]: ", c.defaultRecipient)
	}
	in, err := c.promptAll(
		"Enter case ID: ",
		"Enter evidence ID: ",
		recipientLabel,
		"Recipient name: ",
		"Transfer description: ",
	)
	if err != nil {
		return
	}

	recipient := in[2]
	if recipient == "" {
		recipient = c.defaultRecipient
	}

	receipt, err := c.client.Transfer(ctx, in[0], in[1], recipient, in[3], in[4])
	if err != nil {
		fmt.Fprintf(c.out, "Error transferring evidence: %v\n", err)
		return
	}
	c.printReceipt("Evidence transferred", receipt)
}

func (c *Console) delete(ctx context.Context) {
	in, err := c.promptAll("Enter case ID: ", "Enter evidence ID: ")
	if err != nil {
		return
	}

	receipt, err := c.client.Delete(ctx, in[0], in[1])
	if err != nil {
		fmt.Fprintf(c.out, "Error deleting evidence: %v\n", err)
		return
	}
	c.printReceipt("Evidence deleted", receipt)
}

func (c *Console) view(ctx context.Context) {
	in, err := c.promptAll("Enter case ID: ", "Enter evidence ID: ")
	if err != nil {
		return
	}

	ev, err := c.client.View(ctx, in[0], in[1])
	if err != nil {
		fmt.Fprintf(c.out, "Error viewing evidence: %v\n", err)
		return
	}

	deleted := "No"
	if ev.Deleted {
		deleted = "Yes"
	}
	fmt.Fprintf(c.out, "\nEvidence ID:    %s\n", ev.EvidenceID)
	fmt.Fprintf(c.out, "Current Holder: %s\n", ev.Holder)
	fmt.Fprintf(c.out, "Holder Name:    %s\n", ev.HolderName)
	fmt.Fprintf(c.out, "Description:    %s\n", ev.Description)
	fmt.Fprintf(c.out, "IPFS Hash:      %s\n", ev.AttachmentHash)
	fmt.Fprintf(c.out, "Deleted:        %s\n", deleted)
}

func (c *Console) history(ctx context.Context) {
	in, err := c.promptAll("Enter case ID: ", "Enter evidence ID: ")
	if err != nil {
		return
	}

	entries, err := c.client.History(ctx, in[0], in[1])
	if err != nil {
		fmt.Fprintf(c.out, "Error fetching history: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No history found.")
		return
	}

	for i, entry := range entries {
		fmt.Fprintf(c.out, "\nEntry #%d:\n", i+1)
		fmt.Fprintf(c.out, "  Holder Address: %s\n", entry.Holder)
		fmt.Fprintf(c.out, "  Holder Name:    %s\n", entry.HolderName)
		fmt.Fprintf(c.out, "  Action:         %s\n", entry.Action)
		fmt.Fprintf(c.out, "  Description:    %s\n", entry.Description)
		fmt.Fprintf(c.out, "  Timestamp:      %s\n", entry.Timestamp.Format(timestampLayout))
	}
}

func (c *Console) listAll(ctx context.Context) {
	ids, err := c.client.ListEvidenceIDs(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error listing evidence: %v\n", err)
		return
	}
	if len(ids) == 0 {
		fmt.Fprintln(c.out, "No evidence registered yet.")
		return
	}

	fmt.Fprintln(c.out, "\nAll evidence IDs:")
	for _, id := range ids {
		fmt.Fprintf(c.out, " - %s\n", id)
	}
}

func (c *Console) printReceipt(what string, receipt *custody.Receipt) {
	fmt.Fprintf(c.out, "%s. Tx Hash: %s | Block #%d\n",
		what, receipt.TxHash, receipt.BlockNumber)
}
