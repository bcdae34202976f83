package repository

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return fs
}

func TestFlagCatalog(t *testing.T) {
	ctx := context.Background()
	fs := newTestFs(t, map[string]string{
		"/Europe/Europe-France.png":                      "fr",
		"/Europe/Europe-United_Kingdom.png":              "uk",
		"/Europe/notes.txt":                              "ignored",
		"/Europe/Asia-Japan.png":                         "wrong region",
		"/Europe/Europe-Bad,Name.png":                    "reserved character",
		"/Europe/Europe-Bosnia Herzegovina.png":          "space in file name",
		"/North_America/North_America-Canada.png":        "ca",
		"/North_America/North_America-Antigua_and_B.png": "ag",
		"/.hidden/.hidden-File.png":                      "hidden",
	})
	catalog := NewFlagCatalog(fs, zap.NewNop())

	regions, err := catalog.Regions(ctx)
	if err != nil {
		t.Fatalf("Regions() unexpected error: %v", err)
	}
	if !slices.Equal(regions, []string{"Europe", "North_America"}) {
		t.Errorf("Regions() = %v", regions)
	}

	tests := []struct {
		name    string
		regions []string
		want    []entities.FlagID
	}{
		{
			name:    "single region",
			regions: []string{"Europe"},
			want:    []entities.FlagID{"Europe-France", "Europe-United_Kingdom"},
		},
		{
			name:    "several regions",
			regions: []string{"Europe", "North_America"},
			want: []entities.FlagID{
				"Europe-France", "Europe-United_Kingdom",
				"North_America-Antigua_and_B", "North_America-Canada",
			},
		},
		{
			name:    "missing region contributes nothing",
			regions: []string{"Antarctica", "North_America"},
			want:    []entities.FlagID{"North_America-Antigua_and_B", "North_America-Canada"},
		},
		{
			name:    "no regions",
			regions: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.ListFlags(ctx, tt.regions)
			slices.Sort(got)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ListFlags(%v) = %v, want %v", tt.regions, got, tt.want)
			}
		})
	}

	data, err := catalog.ReadFlag(ctx, "Europe-France")
	if err != nil {
		t.Fatalf("ReadFlag() unexpected error: %v", err)
	}
	if string(data) != "fr" {
		t.Errorf("ReadFlag() = %q", data)
	}

	if _, err := catalog.ReadFlag(ctx, "Europe-Atlantis"); err == nil {
		t.Error("ReadFlag() of a missing flag succeeded")
	}

	// Every listed flag can be found again from its display name.
	for _, id := range catalog.ListFlags(ctx, regions) {
		back := entities.FlagIDFromName(id.Region(), id.CountryName())
		if _, err := catalog.ReadFlag(ctx, back); err != nil {
			t.Errorf("ReadFlag(%s) from display name %q: %v", back, id.CountryName(), err)
		}
	}
}

func TestFilterByRegion(t *testing.T) {
	all := []entities.FlagID{"Europe-France", "Asia-Japan", "Europe-Spain"}

	got := FilterByRegion(all, "Europe")
	if !slices.Equal(got, []entities.FlagID{"Europe-France", "Europe-Spain"}) {
		t.Fatalf("FilterByRegion() = %v", got)
	}

	got = append(got, "Europe-Italy")
	got[0] = "Europe-Poland"
	if all[0] != "Europe-France" || all[2] != "Europe-Spain" {
		t.Errorf("FilterByRegion() result aliases its input: %v", all)
	}

	if got := FilterByRegion(all, "Oceania"); len(got) != 0 {
		t.Errorf("FilterByRegion(Oceania) = %v", got)
	}
}

func TestQueueCodec(t *testing.T) {
	queue := []entities.FlagID{"Europe-France", "North_America-United_States"}

	joined := JoinQueue(queue)
	if joined != "Europe-France,North_America-United_States" {
		t.Errorf("JoinQueue() = %q", joined)
	}
	if got := SplitQueue(joined); !slices.Equal(got, queue) {
		t.Errorf("SplitQueue() = %v", got)
	}

	empty := SplitQueue("")
	if empty == nil || len(empty) != 0 {
		t.Errorf("SplitQueue(\"\") = %#v, want empty non-nil", empty)
	}

	if got := SplitRegions(JoinRegions([]string{"Asia", "Europe"})); !slices.Equal(got, []string{"Asia", "Europe"}) {
		t.Errorf("regions round trip = %v", got)
	}
	if got := SplitRegions(""); got != nil {
		t.Errorf("SplitRegions(\"\") = %v", got)
	}
}
