package hubutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runStage applies a stream transformation to a string
func runStage(t *testing.T, stg Stage, txt string) (string, error) {

	t.Helper()

	var out strings.Builder
	err := stg(strings.NewReader(txt), &out)

	return out.String(), err
}

func TestExclusionFilter(t *testing.T) {

	flt := NewExclusionFilter([]string{"NC_024512.1", "  ", "", "GeneWise\r\n"})
	if flt.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", flt.Len())
	}

	out, err := runStage(t, flt.Filter, "keep one\ndrop NC_024512.1 line\nGeneWise drop\nkeep two\n")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if out != "keep one\nkeep two\n" {
		t.Errorf("Filter output %q", out)
	}

	var none *ExclusionFilter
	if none.Excludes("anything") || none.Len() != 0 {
		t.Errorf("nil filter excludes lines")
	}
}

func TestLoadExclusionFilter(t *testing.T) {

	path := filepath.Join(t.TempDir(), "exclude.txt")
	if err := os.WriteFile(path, []byte("mitochondrion_genome\n\nChrC\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flt, err := LoadExclusionFilter(path)
	if err != nil {
		t.Fatalf("LoadExclusionFilter failed: %v", err)
	}
	if flt.Len() != 2 || !flt.Excludes("ChrC\tTAIR10\tgene") {
		t.Errorf("unexpected filter %v", flt)
	}

	if _, err := LoadExclusionFilter(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Errorf("LoadExclusionFilter accepted a missing file")
	}
}

func TestFixTRNAs(t *testing.T) {

	txt := strings.Join([]string{
		"##gff-version 3",
		"2L\tFlyBase\tgene\t90\t172\t.\t+\t.\tID=gene9;Name=tRNA:Glu-CTC-1-1;gene=tRNA:Glu-CTC-1-1",
		"2L\tFlyBase\ttRNA\t100\t172\t.\t+\t.\tID=rna9;Parent=gene9;Note=tRNA:Glu-CTC-1-1-RA",
		"2L\tFlyBase\ttRNA\t90\t160\t.\t+\t.\tID=rna10;Note=tRNA:Glu-CTC-1-1-RA",
		"2L\tFlyBase\tgene\t500\t900\t.\t+\t.\tID=gene10;Name=net;gene=net",
	}, "\n") + "\n"

	out, err := runStage(t, mustSource(t, "ncbi_flybase", "").Preprocess, txt)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	expected := strings.Join([]string{
		"##gff-version 3",
		"2L\tFlyBase\tgene\t90\t172\t.\t+\t.\tID=gene.trna.Glu-CTC-1-1;Name=tRNA:Glu-CTC-1-1;gene=tRNA:Glu-CTC-1-1",
		"2L\tFlyBase\tgene\t500\t900\t.\t+\t.\tID=gene10;Name=net;gene=net",
		"2L\tFlyBase\ttRNA\t90\t172\t.\t+\t.\tParent=gene.trna.Glu-CTC-1-1;ID=rna10;Note=tRNA:Glu-CTC-1-1-RA",
	}, "\n") + "\n"

	if out != expected {
		t.Errorf("Preprocess output\n%s\nexpected\n%s", out, expected)
	}

	bad := "2L\tFlyBase\ttRNA\t100\t172\t.\t+\t.\tID=rna9;Note=something\n"
	var ie *IntegrityError
	if _, err := runStage(t, mustSource(t, "ncbi_flybase", "").Preprocess, bad); !errors.As(err, &ie) {
		t.Errorf("expected an IntegrityError, got %v", err)
	}
}

func TestProviderPreprocess(t *testing.T) {

	crg := strings.Join([]string{
		"##sequence-region   scaffold_3 1 5000",
		"scaffold_3\tCRG\tgene\t1\t900\t.\t+\t.\tID=g1",
		"scaffold_3\tCRG\ttranscript\t1\t900\t.\t+\t.\tID=t1;Parent=g1",
	}, "\n") + "\n"

	out, err := runStage(t, mustSource(t, "crg", "Mrot").Preprocess, crg)
	if err != nil {
		t.Fatalf("crg Preprocess failed: %v", err)
	}
	expected := "##sequence-region MrotScf_3 1 5000\n" +
		"MrotScf_3\tCRG\tgene\t1\t900\t.\t+\t.\tID=g1\n" +
		"MrotScf_3\tCRG\tmRNA\t1\t900\t.\t+\t.\tID=t1;Parent=g1\n"
	if out != expected {
		t.Errorf("crg output %q, expected %q", out, expected)
	}

	tair := "Chr1\tTAIR10\tprotein\t1\t900\t.\t+\t.\tID=AT1G01010.1-Protein;Index=1\n"
	out, err = runStage(t, mustSource(t, "tair", "").Preprocess, tair)
	if err != nil {
		t.Fatalf("tair Preprocess failed: %v", err)
	}
	if !strings.HasSuffix(out, "ID=AT1G01010.1-Protein;index=1\n") {
		t.Errorf("tair output %q", out)
	}

	bee := "Group1.1\tBeeBase\tregion\t1\t90000\t.\t+\t.\tID=Group1.1\n" +
		"Group1.1\tBeeBase\tgene\t1\t900\t.\t+\t.\tID=GB40001;Name=GB40001\n"
	out, err = runStage(t, mustSource(t, "beebase", "").Preprocess, bee)
	if err != nil {
		t.Fatalf("beebase Preprocess failed: %v", err)
	}
	if strings.Contains(out, "\tregion\t") || !strings.Contains(out, "\tgene\t") {
		t.Errorf("beebase output %q", out)
	}

	pdom := readTestFile(t, "pdom-266.gff3")
	out, err = runStage(t, mustSource(t, "pdom", "").Preprocess, pdom)
	if err != nil || out != pdom {
		t.Errorf("pdom Preprocess changed its input: %v", err)
	}
}
