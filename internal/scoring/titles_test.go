package scoring

import (
	"reflect"
	"testing"

	"ramendo/internal/domain"
)

func titleByID(titles []AwardedTitle, id string) (AwardedTitle, bool) {
	for _, t := range titles {
		if t.TitleID == id {
			return t, true
		}
	}
	return AwardedTitle{}, false
}

func TestComparativeTitlesSkipAllZero(t *testing.T) {
	e := testEngine(t)
	entries := []Entry{
		{State: &domain.PlayerState{PlayerID: "a"}},
		{State: &domain.PlayerState{PlayerID: "b"}},
	}
	titles := e.AwardTitles(entries)
	for _, id := range []string{"big_eater", "artist", "gourmet"} {
		if _, ok := titleByID(titles, id); ok {
			t.Fatalf("%s awarded although every metric is zero", id)
		}
	}
}

func TestComparativeTitlesShareTies(t *testing.T) {
	e := testEngine(t)
	entries := []Entry{
		{State: &domain.PlayerState{PlayerID: "a", Grid: domain.Grid{{"negi", "nori"}}}},
		{State: &domain.PlayerState{PlayerID: "b", Grid: domain.Grid{{"corn"}}}},
		{State: &domain.PlayerState{PlayerID: "c", Grid: domain.Grid{{"ebi"}, {"menma"}}}},
	}
	titles := e.AwardTitles(entries)
	got, ok := titleByID(titles, "big_eater")
	if !ok {
		t.Fatal("big_eater not awarded")
	}
	if !reflect.DeepEqual(got.Winners, []string{"a", "c"}) {
		t.Fatalf("winners = %v, want [a c]", got.Winners)
	}
}

func TestAchievementWithoutWinnersIsOmitted(t *testing.T) {
	e := testEngine(t)
	entries := []Entry{
		{State: &domain.PlayerState{PlayerID: "a", Grid: domain.Grid{{"negi"}}}},
	}
	titles := e.AwardTitles(entries)
	if _, ok := titleByID(titles, "full_bowl"); ok {
		t.Fatal("full_bowl must be omitted when nobody filled the bowl")
	}
	for _, title := range titles {
		if len(title.Winners) == 0 {
			t.Fatalf("%s present with no winners", title.TitleID)
		}
	}
}

func TestAchievementsAwardEveryQualifier(t *testing.T) {
	e := testEngine(t)
	full := domain.Grid{
		{"chashu", "negi", "menma"},
		{"nitamago", "nori", "corn"},
		{"butter", "ebi", "wakame"},
	}
	entries := []Entry{
		{State: &domain.PlayerState{PlayerID: "a", Grid: full}},
		{State: &domain.PlayerState{PlayerID: "b", Grid: full}},
		{State: &domain.PlayerState{PlayerID: "c", Grid: domain.Grid{{"", "negi", ""}}}},
	}
	titles := e.AwardTitles(entries)
	got, ok := titleByID(titles, "full_bowl")
	if !ok || !reflect.DeepEqual(got.Winners, []string{"a", "b"}) {
		t.Fatalf("full_bowl = %+v, want winners [a b]", got)
	}
	zen, ok := titleByID(titles, "zen_master")
	if !ok || !reflect.DeepEqual(zen.Winners, []string{"c"}) {
		t.Fatalf("zen_master = %+v, want winners [c]", zen)
	}
}

func TestUniqueIngredientsAchievement(t *testing.T) {
	e := testEngine(t)
	entries := []Entry{
		{State: &domain.PlayerState{PlayerID: "a", Grid: domain.Grid{{"ebi", "corn", "naruto"}}}},
		{State: &domain.PlayerState{PlayerID: "b", Grid: domain.Grid{{"corn", "negi"}}}},
	}
	titles := e.AwardTitles(entries)
	if _, ok := titleByID(titles, "original"); ok {
		t.Fatal("a has only two unique ingredients")
	}
	entries[0].State.Grid[1][0] = "nori"
	titles = e.AwardTitles(entries)
	got, ok := titleByID(titles, "original")
	if !ok || !reflect.DeepEqual(got.Winners, []string{"a"}) {
		t.Fatalf("original = %+v, want winners [a]", got)
	}
}
