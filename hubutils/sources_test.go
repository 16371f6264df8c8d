package hubutils

import (
	"errors"
	"strings"
	"testing"
)

// mustSource returns an adapter or fails the test
func mustSource(t *testing.T, name, label string) SourceAdapter {

	t.Helper()

	src, err := NewSourceAdapter(name, label)
	if err != nil {
		t.Fatalf("NewSourceAdapter(%s) failed: %v", name, err)
	}

	return src
}

// mustRecord parses a feature line written with spaces between columns
func mustRecord(t *testing.T, line string) *Record {

	t.Helper()

	cols := strings.Fields(line)
	if len(cols) != 9 {
		t.Fatalf("test record needs nine columns: %s", line)
	}

	rec, ok := ParseRecord(strings.Join(cols, "\t"))
	if !ok {
		t.Fatalf("unable to parse test record: %s", line)
	}

	return rec
}

func TestUnknownSource(t *testing.T) {

	_, err := NewSourceAdapter("ensembl", "")
	if err == nil {
		t.Fatalf("NewSourceAdapter accepted an unknown provider")
	}
	if !strings.Contains(err.Error(), "beebase, crg, local, ncbi_flybase, pdom, refseq, tair") {
		t.Errorf("error does not list the providers: %v", err)
	}

	for _, name := range SourceNames {
		if src := mustSource(t, name, "Test"); src.Name() != name {
			t.Errorf("Name() = %s, expected %s", src.Name(), name)
		}
	}
}

func TestGeneAccessionRules(t *testing.T) {

	gene := "s . gene 1 100 . + . ID=gene7;Name=LOC7;Dbxref=GeneID:7007"

	cases := []struct {
		source   string
		line     string
		expected string
	}{
		{"refseq", gene, "7007"},
		{"ncbi_flybase", gene, "7007"},
		{"crg", gene, "gene7"},
		{"tair", gene, "gene7"},
		{"pdom", gene, "LOC7"},
		{"beebase", gene, "LOC7"},
		{"beebase", "s . gene 1 100 . + . ID=GB40001", "GB40001"},
		{"local", gene, "7007"},
		{"local", "s . gene 1 100 . + . ID=gene7;Name=LOC7", "gene7"},
		{"local", "s . gene 1 100 . + . Name=LOC7", "LOC7"},
	}

	for _, cs := range cases {
		src := mustSource(t, cs.source, "")
		acc, err := src.GeneAccession(mustRecord(t, cs.line))
		if err != nil {
			t.Errorf("%s: GeneAccession failed: %v", cs.source, err)
			continue
		}
		if acc != cs.expected {
			t.Errorf("%s: GeneAccession = %s, expected %s", cs.source, acc, cs.expected)
		}
	}
}

func TestTranscriptAccessionRules(t *testing.T) {

	mrna := "s . mRNA 1 100 . + . ID=rna7;Parent=gene7;Name=LOC7-RA;transcript_id=XM_0007.1;Dbxref=GeneID:7007"
	bare := "s . ncRNA 1 100 . + . ID=rna8;Parent=gene8;Dbxref=GeneID:8008"

	cases := []struct {
		source   string
		line     string
		expected string
	}{
		{"refseq", mrna, "XM_0007.1"},
		{"refseq", bare, "8008:ncRNA"},
		{"ncbi_flybase", bare, "8008:ncRNA"},
		{"crg", mrna, "rna7"},
		{"pdom", mrna, "rna7"},
		{"beebase", mrna, "LOC7-RA"},
		{"tair", mrna, "LOC7-RA"},
		{"tair", bare, "rna8"},
		{"local", mrna, "XM_0007.1"},
		{"local", "s . mRNA 1 100 . + . Name=LOC7-RA;Dbxref=GeneID:7007", "LOC7-RA"},
		{"local", "s . mRNA 1 100 . + . Dbxref=GeneID:7007", "7007:mRNA"},
	}

	for _, cs := range cases {
		src := mustSource(t, cs.source, "")
		acc, err := src.TranscriptAccession(mustRecord(t, cs.line))
		if err != nil {
			t.Errorf("%s: TranscriptAccession failed: %v", cs.source, err)
			continue
		}
		if acc != cs.expected {
			t.Errorf("%s: TranscriptAccession = %s, expected %s", cs.source, acc, cs.expected)
		}
	}
}

func TestMissingAccession(t *testing.T) {

	src := mustSource(t, "refseq", "")

	_, err := src.GeneAccession(mustRecord(t, "s . gene 1 100 . + . ID=gene9;Name=orphan"))

	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected an IntegrityError, got %v", err)
	}
	if ie.Source != "refseq" || ie.ID != "gene9" || ie.Type != "gene" {
		t.Errorf("unexpected error fields %+v", ie)
	}
	if !strings.Contains(ie.Error(), "gene accession [GeneID]") {
		t.Errorf("error does not name the rule: %s", ie.Error())
	}
}

func TestProteinIDRules(t *testing.T) {

	cases := []struct {
		source   string
		line     string
		expected string
	}{
		{"refseq", "s . CDS 1 90 . + 0 ID=cds1;Parent=rna1;Name=NP_1.1;protein_id=NP_1.1", "NP_1.1"},
		{"ncbi_flybase", "s . CDS 1 90 . + 0 ID=cds1;Parent=rna1;protein_id=NP_2.1", "NP_2.1"},
		{"beebase", "s . mRNA 1 90 . + . ID=GB40001-RA;Parent=GB40001;Name=GB40001-RA", "GB40001-PA"},
		{"tair", "s . mRNA 1 90 . + . ID=AT1G01010.1;Parent=AT1G01010;Name=AT1G01010.1", "AT1G01010.1"},
		{"pdom", "s . mRNA 1 90 . + . ID=m1;Parent=g1;Name=PdomMRNAr1.2-00001.1", "PdomMRNAr1.2-00001.1"},
		{"crg", "s . mRNA 1 90 . + . ID=m1;Parent=g1;Name=Mrot1;protein_id=MrotP1", "MrotP1"},
		{"local", "s . mRNA 1 90 . + . ID=m1;Parent=g1;Name=loc1", "loc1"},
	}

	for _, cs := range cases {
		src := mustSource(t, cs.source, "")
		id, err := src.ProteinID(mustRecord(t, cs.line))
		if err != nil {
			t.Errorf("%s: ProteinID failed: %v", cs.source, err)
			continue
		}
		if id != cs.expected {
			t.Errorf("%s: ProteinID = %s, expected %s", cs.source, id, cs.expected)
		}
	}

	// RefSeq never falls back to the Name attribute
	refseq := mustSource(t, "refseq", "")
	if _, err := refseq.ProteinID(mustRecord(t, "s . CDS 1 90 . + 0 Parent=rna1;Name=NP_1.1")); err == nil {
		t.Errorf("refseq ProteinID accepted a CDS without protein_id")
	}
}

func TestNoise(t *testing.T) {

	refseq := mustSource(t, "refseq", "")
	pdom := mustSource(t, "pdom", "")

	for _, ftype := range []string{"region", "match", "cDNA_match"} {
		rec := mustRecord(t, "s . "+ftype+" 1 100 . + . ID=x")
		if !refseq.IsNoise(rec) {
			t.Errorf("refseq does not treat %s as noise", ftype)
		}
		if pdom.IsNoise(rec) {
			t.Errorf("pdom treats %s as noise", ftype)
		}
	}

	if refseq.IsNoise(mustRecord(t, "s . gene 1 100 . + . ID=x")) {
		t.Errorf("refseq treats gene as noise")
	}
	if !refseq.IsNoisePragma("##species http://www.ncbi.nlm.nih.gov/Taxonomy/Browser/wwwtax.cgi?id=7227") {
		t.Errorf("refseq keeps ##species")
	}
	if pdom.IsNoisePragma("##species x") {
		t.Errorf("pdom drops ##species")
	}
}

func TestFormatDefline(t *testing.T) {

	refseq := mustSource(t, "refseq", "")
	beebase := mustSource(t, "beebase", "")
	crg := mustSource(t, "crg", "Mrot")
	pdom := mustSource(t, "pdom", "")

	stringTestMatch(t, "refseq FormatDefline,", refseq.FormatDefline,
		[]stringTable{
			{">gi|17136226|ref|NP_524820.2| net [Drosophila melanogaster]", ">NP_524820.2 net [Drosophila melanogaster]"},
			{">NP_524820.2 net", ">NP_524820.2 net"},
		})

	stringTestMatch(t, "beebase FormatDefline,", beebase.FormatDefline,
		[]stringTable{
			{">gnl|Amel_4.5|GB40001-PA", ">GB40001-PA gnl|Amel_4.5|GB40001-PA"},
			{">GB40001-PA", ">GB40001-PA"},
		})

	stringTestMatch(t, "crg FormatDefline,", crg.FormatDefline,
		[]stringTable{
			{">scaffold_12 length=5000", ">MrotScf_12 length=5000"},
			{">scaffold7", ">MrotScf_7"},
			{">contig3", ">contig3"},
		})

	stringTestMatch(t, "pdom FormatDefline,", pdom.FormatDefline,
		[]stringTable{
			{">PdomSCFr1.2-0266", ">PdomSCFr1.2-0266"},
		})
}

func TestSourceTraits(t *testing.T) {

	if !mustSource(t, "refseq", "").Traits().ProteinsOnCDS {
		t.Errorf("refseq proteins are not on CDS records")
	}
	if mustSource(t, "beebase", "").Traits().ExonType != "CDS" {
		t.Errorf("beebase mature mRNAs are not built from CDS records")
	}
	tair := mustSource(t, "tair", "").Traits()
	if !tair.UniqueProteinNames || !tair.LenientLocusParent {
		t.Errorf("unexpected tair traits %+v", tair)
	}
	for _, name := range []string{"crg", "beebase", "local"} {
		if !mustSource(t, name, "").Traits().FixRegions {
			t.Errorf("%s does not rebuild sequence regions", name)
		}
	}
	if mustSource(t, "pdom", "").Traits().FixRegions {
		t.Errorf("pdom rebuilds sequence regions")
	}
}
