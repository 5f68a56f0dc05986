package faculty

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/citefeed/citefeed/internal/logger"
	"github.com/citefeed/citefeed/internal/vocab"
)

func build(t *testing.T, csvText string) Index {
	t.Helper()
	ix, err := NewBuilder(vocab.AdminPositionType, logger.Nop()).Build(strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ix
}

func TestBuildClassifies(t *testing.T) {
	ix := build(t, `shortid,rank,unit,type
000012345,Professor,Computer Science,http://vivoweb.org/ontology/core#FacultyPosition
000012345,Chair,Computer Science,http://vivoweb.org/ontology/core#FacultyAdministrativePosition
000012345,Professor,Applied Math,http://vivoweb.org/ontology/core#FacultyPosition
000099999,Lecturer,English,
`)

	got := ix["000012345"]
	wantFaculty := []Title{{"Professor", "Computer Science"}, {"Professor", "Applied Math"}}
	wantAdmin := []Title{{"Chair", "Computer Science"}}
	if !reflect.DeepEqual(got.Faculty, wantFaculty) {
		t.Errorf("faculty = %v, want %v", got.Faculty, wantFaculty)
	}
	if !reflect.DeepEqual(got.Admin, wantAdmin) {
		t.Errorf("admin = %v, want %v", got.Admin, wantAdmin)
	}

	other := ix["000099999"]
	if other.Admin == nil || len(other.Admin) != 0 {
		t.Errorf("admin titles should be empty non-nil, got %#v", other.Admin)
	}
	if !reflect.DeepEqual(ix.Authors(), []string{"000012345", "000099999"}) {
		t.Errorf("Authors = %v", ix.Authors())
	}
}

func TestBuildHeaderOrderAndExtras(t *testing.T) {
	ix := build(t, "\ufeffFac,Type, UNIT ,Rank,ShortId,pos\n"+
		"<x>,,History,Associate Professor,abc1,<p>\n")

	want := []Title{{"Associate Professor", "History"}}
	if !reflect.DeepEqual(ix["abc1"].Faculty, want) {
		t.Errorf("faculty = %v, want %v", ix["abc1"].Faculty, want)
	}
}

func TestBuildSkipsEmptyShortID(t *testing.T) {
	ix := build(t, "shortid,rank,unit,type\n,Professor,Physics,\nx1,Professor,Physics,\n")
	if len(ix) != 1 {
		t.Errorf("index has %d authors, want 1", len(ix))
	}
}

func TestBuildMissingColumn(t *testing.T) {
	_, err := NewBuilder(vocab.AdminPositionType, logger.Nop()).Build(strings.NewReader("shortid,rank\nx,y\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "unit") || !strings.Contains(err.Error(), "type") {
		t.Errorf("error should name missing columns: %v", err)
	}
}

func TestBuildEmpty(t *testing.T) {
	for _, in := range []string{"", "shortid,rank,unit,type\n"} {
		if ix := build(t, in); len(ix) != 0 {
			t.Errorf("Build(%q) = %d authors, want 0", in, len(ix))
		}
	}
}
