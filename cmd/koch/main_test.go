package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/koch/internal/config"
	"github.com/verte-zerg/koch/internal/generator"
	"github.com/verte-zerg/koch/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedScores(t *testing.T, path string, scores map[int][]int) {
	t.Helper()
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	for lesson, accs := range scores {
		for _, acc := range accs {
			if err := st.AppendScore(context.Background(), lesson, acc); err != nil {
				t.Fatalf("append score: %v", err)
			}
		}
	}
}

func TestLessonsCommandListsCurriculum(t *testing.T) {
	out, err := execute(t, "lessons")
	if err != nil {
		t.Fatalf("lessons failed: %v", err)
	}
	for _, want := range []string{"Lesson", "KM", "-.- --", "KMRSUAPTLOWI.NJEF0Y,VG5/Q9ZH38B?427C1D6X", "40"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderWritesWAV(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "out", "lesson.wav")
	out, err := execute(t, "render",
		"--lesson", "2",
		"--seed", "3",
		"--sample-rate", "8000",
		"--out", wavPath,
		"--config", filepath.Join(dir, "missing.toml"),
	)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want, err := generator.NewWithSeed(3).Lesson(2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.TrimSpace(out) != want {
		t.Fatalf("render printed %q, want %q", out, want)
	}
	data, err := os.ReadFile(wavPath)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if len(data) <= 44 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("unexpected wav header")
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "missing.toml")
	if _, err := execute(t, "render", "--config", cfg); err == nil || !strings.Contains(err.Error(), "--out") {
		t.Fatalf("expected --out error, got %v", err)
	}
	if _, err := execute(t, "render", "--config", cfg, "--out", filepath.Join(dir, "x.wav"), "--lesson", "41"); err == nil {
		t.Fatalf("expected invalid lesson error")
	}
	if _, err := execute(t, "render", "--config", cfg, "--out", filepath.Join(dir, "x.wav"), "--effective-wpm", "30"); err == nil {
		t.Fatalf("expected invalid speed error")
	}
}

func TestResetLesson(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "koch.db")
	seedScores(t, dbPath, map[int][]int{1: {50, 60}, 2: {90}})

	if _, err := execute(t, "reset", "--db", dbPath, "--lesson", "1"); err == nil {
		t.Fatalf("expected reset without --yes to fail")
	}
	out, err := execute(t, "reset", "--db", dbPath, "--lesson", "1", "--yes")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !strings.Contains(out, "Reset scores for lesson 1 (2 removed)") {
		t.Fatalf("unexpected output: %q", out)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	data, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.History(1)) != 0 || len(data.History(2)) != 1 {
		t.Fatalf("unexpected data after reset: %+v", data)
	}
}

func TestStatsPlain(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "koch.db")
	seedScores(t, dbPath, map[int][]int{3: {70, 92}})

	out, err := execute(t, "stats", "--plain", "--db", dbPath, "--lesson", "3")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Lessons practiced: 1", "Highest mastered lesson: 3", "Lesson 3", "Last attempt:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestStatsRejectsLessonOutOfRange(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "koch.db")
	_, err := execute(t, "stats", "--plain", "--db", dbPath, "--lesson", "41")
	if err == nil {
		t.Fatalf("expected out of range lesson to fail")
	}
	if !strings.Contains(err.Error(), "between 0 and 40") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := execute(t, "stats", "--plain", "--db", dbPath, "--lesson", "0"); err != nil {
		t.Fatalf("lesson 0 should select most practiced: %v", err)
	}
}

func TestResetLessonKeepsOtherTimestamps(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "koch.db")
	seedScores(t, dbPath, map[int][]int{2: {70, 80}})
	seedScores(t, dbPath, map[int][]int{1: {50}})

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	before, err := st.ListScores(context.Background(), 2)
	_ = st.Close()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if _, err := execute(t, "reset", "--db", dbPath, "--lesson", "1", "--yes"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	st, err = store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	after, err := st.ListScores(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("expected %d entries, got %+v", len(before), after)
	}
	for i := range after {
		if after[i].ID != before[i].ID || !after[i].RecordedAt.Equal(before[i].RecordedAt) {
			t.Fatalf("entry %d changed: before %+v after %+v", i, before[i], after[i])
		}
	}
}

func TestResolveSettingsPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := "[morse]\nwpm = 25\ntone = 700.0\n\n[audio]\nmute = true\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fileCfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--tone", "800"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	settings := resolveSettings(cmd, fileCfg)
	if settings.CharWPM != 25 {
		t.Fatalf("expected config wpm 25, got %d", settings.CharWPM)
	}
	if settings.ToneHz != 800 {
		t.Fatalf("expected flag tone 800, got %v", settings.ToneHz)
	}
	if settings.EffectiveWPM != config.DefaultEffectiveWPM || settings.SampleRate != config.DefaultSampleRate {
		t.Fatalf("expected defaults for unset values, got %+v", settings)
	}
	if !settings.Mute {
		t.Fatalf("expected mute from config")
	}
}
