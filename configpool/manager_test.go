package manager

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"vlesspool/configpool/model"
	"vlesspool/configpool/storage"
	"vlesspool/internal/shared/types"
)

// mockScraper is a canned-response implementation of the scraper.Scraper interface.
type mockScraper struct {
	name  string
	links []string
	err   error
}

func (m *mockScraper) Scrape() ([]string, error) { return m.links, m.err }
func (m *mockScraper) Name() string              { return m.name }

// mockStorage records Save calls instead of touching the filesystem.
type mockStorage struct {
	saved     []*model.ConfigInfo
	saveCalls int
}

func (m *mockStorage) LoadSources() ([]string, error) { return nil, nil }
func (m *mockStorage) Save(configs []*model.ConfigInfo) error {
	m.saved = configs
	m.saveCalls++
	return nil
}

func newTestManager(st storage.Storage, scrapers ...*mockScraper) *Manager {
	m := NewManager(types.Default(), st)
	for _, s := range scrapers {
		m.AddScraper(s)
	}
	return m
}

func TestRun_KeepsHighestScorePerIdentity(t *testing.T) {
	st := &mockStorage{}
	m := newTestManager(st, &mockScraper{
		name: "s1",
		links: []string{
			"vless://u@alt.example:8443?type=ws&security=tls&host=e",           // score 35
			"vless://u@best.example:443?type=ws&security=tls&host=e",           // score 45, same identity
			"vless://v@other.example:443?type=grpc&security=tls&serviceName=s", // score 40
		},
	})

	ranked, err := m.Run()
	if err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("Run() kept %d configs, want 2: %v", len(ranked), ranked)
	}
	if ranked[0].Raw != "vless://u@best.example:443?type=ws&security=tls&host=e" {
		t.Errorf("top config = %q, want the score-45 variant of identity vless://u", ranked[0].Raw)
	}
	if ranked[0].Score != 45 || ranked[1].Score != 40 {
		t.Errorf("scores = %d, %d, want 45, 40", ranked[0].Score, ranked[1].Score)
	}
	if st.saveCalls != 1 {
		t.Errorf("Save was called %d times, want 1", st.saveCalls)
	}
}

func TestRun_TieBreakFollowsDiscoveryOrder(t *testing.T) {
	st := &mockStorage{}
	m := newTestManager(st,
		&mockScraper{name: "s1", links: []string{"vless://x@h1.example:443?type=ws&security=tls&host=e"}},
		&mockScraper{name: "s2", links: []string{"vless://y@h2.example:443?type=ws&security=tls&host=e"}},
	)

	ranked, err := m.Run()
	if err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("Run() kept %d configs, want 2", len(ranked))
	}
	// Both score 45; the source-list order decides.
	if ranked[0].Identity != "vless://x" || ranked[1].Identity != "vless://y" {
		t.Errorf("tie order = %q, %q, want vless://x then vless://y", ranked[0].Identity, ranked[1].Identity)
	}
}

func TestRun_FailedSourceIsIsolated(t *testing.T) {
	st := &mockStorage{}
	m := newTestManager(st,
		&mockScraper{name: "down", err: errors.New("connection refused")},
		&mockScraper{name: "up", links: []string{"vless://u@h.example:443?type=ws&security=tls&host=e"}},
	)

	ranked, err := m.Run()
	if err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Source != "up" {
		t.Fatalf("Run() = %v, want the single config from the healthy source", ranked)
	}
}

func TestRun_VerbatimDuplicateAcrossSourcesCountsOnce(t *testing.T) {
	link := "vless://u@h.example:443?type=ws&security=tls&host=e"
	st := &mockStorage{}
	m := newTestManager(st,
		&mockScraper{name: "s1", links: []string{link}},
		&mockScraper{name: "s2", links: []string{link}},
	)

	ranked, err := m.Run()
	if err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("Run() kept %d configs, want 1", len(ranked))
	}
	if ranked[0].Source != "s1" || ranked[0].Seq != 0 {
		t.Errorf("duplicate attributed to %q (seq %d), want first source s1 (seq 0)", ranked[0].Source, ranked[0].Seq)
	}
}

func TestRun_NothingQualifies_NoSave(t *testing.T) {
	st := &mockStorage{}
	m := newTestManager(st, &mockScraper{
		name: "s1",
		links: []string{
			"vmess://eyJ2IjoiMiJ9",
			"vless://u@h.example:443?security=tls&host=e", // no transport type
		},
	})

	ranked, err := m.Run()
	if err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("Run() kept %d configs, want 0", len(ranked))
	}
	if st.saveCalls != 0 {
		t.Errorf("Save was called %d times for an empty result, want 0", st.saveCalls)
	}
}

func TestRun_EndToEndDeterministic(t *testing.T) {
	rawPayload := "vless://alice@alpha.example:443?type=ws&security=tls&host=cdn.alpha.example\n" +
		"vmess://eyJ2IjoiMiIsImFkZCI6ImV4YW1wbGUuY29tIn0\n" +
		"vless://bob@beta.xyz:443?type=grpc&security=tls&serviceName=gun\n"
	srv1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rawPayload))
	}))
	defer srv1.Close()

	// Same identity as alice but a lower-scoring variant, served Base64-encoded.
	encodedPayload := base64.StdEncoding.EncodeToString(
		[]byte("vless://alice@mirror.example:8443?type=ws&security=tls&host=cdn.alpha.example\n"))
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(encodedPayload))
	}))
	defer srv2.Close()

	runOnce := func(outputPath string) {
		t.Helper()
		st := storage.NewFileStorage(filepath.Join(t.TempDir(), "unused.txt"), outputPath)
		m := NewManager(types.Default(), st)
		m.AddSources([]string{srv1.URL, srv2.URL})
		if _, err := m.Run(); err != nil {
			t.Fatalf("Run() returned an error: %v", err)
		}
	}

	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	runOnce(first)
	runOnce(second)

	firstData, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	secondData, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(firstData) != string(secondData) {
		t.Fatalf("two runs over identical content differ:\n%q\nvs\n%q", firstData, secondData)
	}

	want := "vless://alice@alpha.example:443?type=ws&security=tls&host=cdn.alpha.example\n" +
		"vless://bob@beta.xyz:443?type=grpc&security=tls&serviceName=gun\n"
	if string(firstData) != want {
		t.Errorf("output = %q, want %q", firstData, want)
	}
}

func TestRun_ScraperFailureWithNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	st := &mockStorage{}
	m := NewManager(types.Default(), st)
	m.AddSources([]string{srv.URL})

	ranked, err := m.Run()
	if err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}
	if len(ranked) != 0 || st.saveCalls != 0 {
		t.Errorf("a 404 source contributed configs: %v", ranked)
	}
}
