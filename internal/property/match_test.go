package property

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/modemfind/internal/models"
)

func block(vid, mid, tty string) string {
	return "VID=" + vid + "\nMID=" + mid + "\nTTY=" + tty + "\n"
}

func TestMatch_AllCriteriaRequired(t *testing.T) {
	blocks := []string{
		block("1e0e", "9001", "2"),
		block("1e0e", "9001", "3"),
		block("0000", "9001", "9"),
	}
	criteria := []Criterion{{Key: "VID", Value: "1e0e"}, {Key: "MID", Value: "9001"}}

	got := Match(blocks, "TTY", criteria)
	if diff := cmp.Diff([]string{"2", "3"}, got); diff != "" {
		t.Errorf("Match mismatch (-want +got):\n%s", diff)
	}

	r, ok := Aggregate(got, 10)
	if !ok {
		t.Fatal("expected aggregate")
	}
	if r.Start != 2 || r.Count != 2 {
		t.Errorf("aggregate = %+v, want start 2 count 2", r)
	}
}

func TestMatch_NoCriteriaPassesEveryBlock(t *testing.T) {
	blocks := []string{block("a", "b", "1"), block("c", "d", "2")}
	got := Match(blocks, "TTY", nil)
	if diff := cmp.Diff([]string{"1", "2"}, got); diff != "" {
		t.Errorf("Match mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_MissingTargetKeySkipped(t *testing.T) {
	blocks := []string{
		"VID=1e0e\nMID=9001\n",
		block("1e0e", "9001", "4"),
	}
	criteria := []Criterion{{Key: "VID", Value: "1e0e"}}
	got := Match(blocks, "TTY", criteria)
	if diff := cmp.Diff([]string{"4"}, got); diff != "" {
		t.Errorf("Match mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_AbsentCriterionKeyFails(t *testing.T) {
	blocks := []string{"TTY=1\n"}
	got := Match(blocks, "TTY", []Criterion{{Key: "VID", Value: ""}})
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestModelCriteria(t *testing.T) {
	m := models.Model{Name: "SIM7600", VendorID: "1e0e", ModelID: "9001"}
	dump := "ID_VENDOR_ID=1e0e\nID_MODEL_ID=9001\nID_USB_INTERFACE_NUM=05\n"
	if !Satisfies(dump, ModelCriteria(m)) {
		t.Error("dump should satisfy model criteria")
	}
	if Satisfies("ID_VENDOR_ID=1e0e\nID_MODEL_ID=9011\n", ModelCriteria(m)) {
		t.Error("different model id should not satisfy")
	}
}

func TestAggregate_EmptyIsDistinctFromZero(t *testing.T) {
	if _, ok := Aggregate(nil, 16); ok {
		t.Error("empty set should not aggregate")
	}
	r, ok := Aggregate([]string{"00"}, 16)
	if !ok || r.Start != 0 || r.Count != 1 {
		t.Errorf("aggregate = %+v, %v, want start 0 count 1", r, ok)
	}
}

func TestAggregate_HexAndMalformed(t *testing.T) {
	r, ok := Aggregate([]string{"0a", "03", "zz", "-1", "04"}, BaseFor(KeyInterfaceNum))
	if !ok {
		t.Fatal("expected aggregate")
	}
	if r.Start != 3 || r.Count != 3 {
		t.Errorf("aggregate = %+v, want start 3 count 3", r)
	}
}
