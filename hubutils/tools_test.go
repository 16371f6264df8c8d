package hubutils

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFilterToolMessages(t *testing.T) {

	stderr := "warning: seqid \"scf1\" on line 4 has not been previously introduced\n" +
		"\n" +
		"warning: CDS feature on line 9 has the wrong phase 1 (should be 0)\n" +
		"error: feature on line 12 has no parent\r\n"

	msgs := FilterToolMessages(stderr)
	if len(msgs) != 1 || msgs[0] != "error: feature on line 12 has no parent" {
		t.Errorf("FilterToolMessages = %q", msgs)
	}
}

func TestRunTool(t *testing.T) {

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}

	ctx := context.Background()

	var out strings.Builder
	err := RunTool(ctx, "Test", "sh", []string{"-c", "cat; echo 'no valid mRNAs' >&2"}, strings.NewReader("hello\n"), &out)
	if err != nil {
		t.Fatalf("RunTool failed: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("RunTool output %q", out.String())
	}

	err = RunTool(ctx, "Test", "sh", []string{"-c", "echo boom >&2; exit 3"}, nil, &out)

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected a ToolError, got %v", err)
	}
	if te.ExitCode != 3 || len(te.Stderr) != 1 || te.Stderr[0] != "boom" {
		t.Errorf("unexpected ToolError %+v", te)
	}
	if !strings.Contains(te.Error(), "exit status 3: boom") {
		t.Errorf("unexpected message %s", te.Error())
	}

	err = RunTool(ctx, "Test", "genhub-no-such-program", nil, nil, &out)
	if !errors.As(err, &te) {
		t.Errorf("expected a ToolError for a missing program, got %v", err)
	}
}

func TestDisabledTools(t *testing.T) {

	var ts ToolSet

	if ts.TidyStage(context.Background(), "Test") != nil {
		t.Errorf("TidyStage returned a stage with no program configured")
	}

	db, err := NewGenomeDB(&GenomeConfig{Label: "Test", Source: "pdom", Species: "x", Annotation: "a.gff3"}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := ts.ComputeILoci(context.Background(), db); err != nil {
		t.Errorf("ComputeILoci failed with no driver configured: %v", err)
	}

	path := db.File(".copy.gff3")
	if err := ts.SortTidy(context.Background(), "Test", strings.NewReader("##gff-version 3\n"), path); err != nil {
		t.Fatalf("SortTidy failed: %v", err)
	}
	if got := readGenomeText(t, path); got != "##gff-version 3\n" {
		t.Errorf("SortTidy wrote %q", got)
	}
}

func TestSortTidyRemovesPartialOutput(t *testing.T) {

	path := filepath.Join(t.TempDir(), "Test.gff3")

	truncated := errors.New("truncated input")
	inp := io.MultiReader(strings.NewReader("##gff-version 3\n"), iotest.ErrReader(truncated))

	var ts ToolSet
	if err := ts.SortTidy(context.Background(), "Test", inp, path); !errors.Is(err, truncated) {
		t.Fatalf("SortTidy returned %v, expected the input error", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("partial output left at %s", path)
	}
}

func TestSortTidyIntrons(t *testing.T) {

	txt := "s1\tsrc\tmRNA\t1\t900\t.\t+\t.\tID=m1;Parent=g1;accession=XM_1.1\n" +
		"s1\tsrc\tintron\t301\t599\t.\t+\t.\tParent=m1\n"

	ts := ToolSet{Introns: true}
	path := filepath.Join(t.TempDir(), "introns.gff3")

	if err := ts.SortTidy(context.Background(), "Test", strings.NewReader(txt), path); err != nil {
		t.Fatalf("SortTidy failed: %v", err)
	}
	if got := readGenomeText(t, path); !strings.HasSuffix(got, "\tintron\t301\t599\t.\t+\t.\tParent=m1;accession=XM_1.1\n") {
		t.Errorf("intron accession missing: %q", got)
	}

	orphan := "s1\tsrc\tintron\t301\t599\t.\t+\t.\tParent=m9\n"
	if err := ts.SortTidy(context.Background(), "Test", strings.NewReader(orphan), path); err == nil {
		t.Errorf("SortTidy accepted an intron without a parent accession")
	}
}
