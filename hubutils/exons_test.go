package hubutils

import (
	"errors"
	"strings"
	"testing"
)

func TestExonConverter(t *testing.T) {

	formatted, _, err := formatText(t, "pdom", "", readTestFile(t, "pdom-266.gff3"))
	if err != nil {
		t.Fatalf("FormatGFF3 failed: %v", err)
	}

	var out strings.Builder
	count, err := NewExonConverter(mustSource(t, "pdom", "")).Run(strings.NewReader(formatted), &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 6 {
		t.Errorf("%d records, expected 6", count)
	}

	lines := featureLines(out.String())
	if len(lines) != 6 {
		t.Fatalf("%d output lines, expected 6", len(lines))
	}

	first := "PdomSCFr1.2-0266\tmaker\tmRNA\t8501\t9020\t.\t+\t.\tID=PdomMRNAr1.2-08518.1;accession=PdomMRNAr1.2-08518.1"
	if lines[0] != first {
		t.Errorf("first record %s, expected %s", lines[0], first)
	}

	for _, line := range lines {
		rec, _ := ParseRecord(line)
		if rec.Type() != "mRNA" || rec.Has("Parent") || rec.Fields[FieldPhase] != "." {
			t.Errorf("unexpected converted record %s", line)
		}
		if rec.Value("ID") != rec.Value("accession") {
			t.Errorf("ID and accession differ: %s", line)
		}
	}
}

func TestExonConverterCDS(t *testing.T) {

	txt := strings.Join([]string{
		"##gff-version 3",
		"Group1.1\tBeeBase\tgene\t1\t900\t.\t+\t.\tID=GB40001;Name=GB40001;accession=GB40001",
		"Group1.1\tBeeBase\tmRNA\t1\t900\t.\t+\t.\tID=GB40001-RA;Parent=GB40001;Name=GB40001-RA;accession=GB40001-RA",
		"Group1.1\tBeeBase\texon\t1\t900\t.\t+\t.\tParent=GB40001-RA;accession=GB40001-RA",
		"Group1.1\tBeeBase\tCDS\t10\t300\t.\t+\t0\tParent=GB40001-RA;accession=GB40001-RA",
		"Group1.1\tBeeBase\tCDS\t500\t890\t.\t+\t2\tParent=GB40001-RA;accession=GB40001-RA",
	}, "\n") + "\n"

	var out strings.Builder
	count, err := NewExonConverter(mustSource(t, "beebase", "")).Run(strings.NewReader(txt), &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 2 {
		t.Errorf("%d records, expected 2 from CDS segments", count)
	}
	if !strings.Contains(out.String(), "\tmRNA\t500\t890\t.\t+\t.\tID=GB40001-RA;accession=GB40001-RA\n") {
		t.Errorf("unexpected output %s", out.String())
	}
}

func TestExonConverterKeepMRNAs(t *testing.T) {

	txt := strings.Join([]string{
		"s1\tsrc\tmRNA\t1\t900\t.\t+\t.\tID=m1;Parent=g1;accession=M1",
		"s1\tsrc\texon\t1\t300\t.\t+\t.\tID=e1;Parent=m1",
		"s1\tsrc\ttRNA\t1000\t1072\t.\t+\t.\tID=t1;Parent=g2;accession=T1",
		"s1\tsrc\texon\t1000\t1072\t.\t+\t.\tID=e2;Parent=t1",
	}, "\n") + "\n"

	keep := ExonConverter{KeepMRNAs: true}

	var out strings.Builder
	count, err := keep.Run(strings.NewReader(txt), &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 2 {
		t.Errorf("%d records, expected 2", count)
	}

	expected := "s1\tsrc\tmRNA\t1\t900\t.\t+\t.\tID=m1;accession=M1\n" +
		"s1\tsrc\texon\t1\t300\t.\t+\t.\tID=e1;Parent=m1\n"
	if out.String() != expected {
		t.Errorf("output %q, expected %q", out.String(), expected)
	}

	out.Reset()
	if _, err := (ExonConverter{}).Run(strings.NewReader(txt), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "s1\tsrc\texon\t1\t300\t.\t+\t.\tID=e1\n" {
		t.Errorf("unexpected exon-only output %q", out.String())
	}
}

func TestExonConverterMissingAccession(t *testing.T) {

	txt := "s1\tsrc\tmRNA\t1\t900\t.\t+\t.\tID=m1;Parent=g1\n"

	_, err := (ExonConverter{Convert: true}).Run(strings.NewReader(txt), &strings.Builder{})

	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Errorf("expected an IntegrityError, got %v", err)
	}
}

func TestExonConverterMultipleParents(t *testing.T) {

	txt := strings.Join([]string{
		"s1\tsrc\tmRNA\t1\t900\t.\t+\t.\tID=r1;Parent=g1;accession=A1",
		"s1\tsrc\tmRNA\t1\t900\t.\t+\t.\tID=r2;Parent=g1;accession=A2",
		"s1\tsrc\texon\t1\t300\t.\t+\t.\tParent=r1,r2;accession=A1",
	}, "\n") + "\n"

	_, err := NewExonConverter(mustSource(t, "pdom", "")).Run(strings.NewReader(txt), &strings.Builder{})

	if !errors.Is(err, ErrMultipleParents) {
		t.Errorf("expected ErrMultipleParents, got %v", err)
	}
}

func TestAssignIntronAccessions(t *testing.T) {

	txt := strings.Join([]string{
		"##gff-version 3",
		"s1\tsrc\tmRNA\t1\t900\t.\t+\t.\tID=m1;Parent=g1;accession=XM_1.1",
		"s1\tsrc\texon\t1\t300\t.\t+\t.\tParent=m1;accession=XM_1.1",
		"s1\tsrc\tintron\t301\t599\t.\t+\t.\tParent=m1",
		"s1\tsrc\tV_gene_segment\t2000\t2900\t.\t+\t.\tID=v1;Parent=g5;accession=505",
		"s1\tsrc\tintron\t2301\t2599\t.\t+\t.\tParent=v1",
	}, "\n") + "\n"

	var out strings.Builder
	if err := AssignIntronAccessions(strings.NewReader(txt), &out); err != nil {
		t.Fatalf("AssignIntronAccessions failed: %v", err)
	}

	if !strings.Contains(out.String(), "\tintron\t301\t599\t.\t+\t.\tParent=m1;accession=XM_1.1\n") {
		t.Errorf("mRNA intron lacks accession: %s", out.String())
	}
	if !strings.Contains(out.String(), "\tintron\t2301\t2599\t.\t+\t.\tParent=v1;accession=505\n") {
		t.Errorf("segment intron lacks accession: %s", out.String())
	}
	if !strings.HasPrefix(out.String(), "##gff-version 3\n") {
		t.Errorf("pragma was not passed through")
	}

	orphan := "s1\tsrc\tintron\t301\t599\t.\t+\t.\tParent=m9\n"
	var ie *IntegrityError
	if err := AssignIntronAccessions(strings.NewReader(orphan), &strings.Builder{}); !errors.As(err, &ie) {
		t.Errorf("expected an IntegrityError for an orphan intron, got %v", err)
	}
}
