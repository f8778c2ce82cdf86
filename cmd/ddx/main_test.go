package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/service"
)

const abdominalCase = `{
  "id": "abdo-01",
  "title": "Right lower quadrant pain",
  "chief_complaint": "Abdominal pain",
  "answer_key": [
    {"diagnosis": "Appendicitis", "tier": "most_likely", "is_common": true, "is_cant_miss": true, "vindicate_category": "I"},
    {"diagnosis": "Ectopic Pregnancy", "tier": "moderate", "is_cant_miss": true, "vindicate_category": "V"},
    {"diagnosis": "Gastroenteritis", "tier": "less_likely", "is_common": true, "vindicate_category": "I"}
  ]
}`

func casesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abdo.json"), []byte(abdominalCase), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	out, err := run(t, "search", "DVT", "--cases-dir", "")

	require.NoError(t, err)
	assert.Contains(t, out, "Deep Vein Thrombosis (DVT)")
}

func TestCasesCommand(t *testing.T) {
	out, err := run(t, "cases", "--cases-dir", casesDir(t))

	require.NoError(t, err)
	assert.Equal(t, "abdo-01\tAbdominal pain\tRight lower quadrant pain\n", out)
}

func TestEvaluateCommand(t *testing.T) {
	dir := casesDir(t)

	out, err := run(t, "evaluate", "--cases-dir", dir, "--case", "abdo-01", "--mode", "cant_miss", "appendicitis", "Kidney stone")
	require.NoError(t, err)

	var eval service.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &eval))
	assert.Equal(t, []string{"Appendicitis"}, eval.Feedback.CantMissHit)
	assert.Equal(t, []string{"Ectopic Pregnancy"}, eval.Feedback.CantMissMissed)
	assert.Equal(t, []string{"Kidney stone"}, eval.Feedback.Unmatched)

	out, err = run(t, "evaluate", "--cases-dir", dir, "--case", "abdo-01", "--prompt", "appendicitis")
	require.NoError(t, err)
	assert.Contains(t, out, "Chief Complaint: Abdominal pain")
}

func TestEvaluateCommand_Errors(t *testing.T) {
	dir := casesDir(t)

	_, err := run(t, "evaluate", "--cases-dir", dir, "appendicitis")
	assert.Error(t, err, "missing --case")

	_, err = run(t, "evaluate", "--cases-dir", dir, "--case", "nope", "appendicitis")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCaseNotFound, domain.ErrorCode(err))
}

func TestQuizCommand(t *testing.T) {
	dir := casesDir(t)
	args := []string{"quiz", "--cases-dir", dir, "--case", "abdo-01", "--seed", "11", "Appendicitis", "Gastroenteritis"}

	first, err := run(t, args...)
	require.NoError(t, err)
	second, err := run(t, args...)
	require.NoError(t, err)

	var cards []domain.QuizCard
	require.NoError(t, json.Unmarshal([]byte(first), &cards))
	require.NotEmpty(t, cards)
	assert.Equal(t, "Abdominal pain", cards[0].Answer)
	assert.Equal(t, first, second, "same seed gives the same cards")
}

func TestCheckCommand(t *testing.T) {
	out, err := run(t, "check", "--cases-dir", "", "--correct", "Appendicitis", "acute appendicitis")
	require.NoError(t, err)
	assert.Equal(t, "correct\n", out)

	out, err = run(t, "check", "--cases-dir", "", "--correct", "Appendicitis", "colitis")
	require.NoError(t, err)
	assert.Contains(t, out, "not quite")
}

func TestSetupCommands(t *testing.T) {
	dir := t.TempDir()
	clientConfig := filepath.Join(dir, "client.json")
	binary := filepath.Join(dir, "mcp-server")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))

	out, err := run(t, "setup", "register", "--client-config", clientConfig, "--binary", binary)
	require.NoError(t, err)
	assert.Contains(t, out, "registered ddx-coach")

	out, err = run(t, "setup", "status", "--client-config", clientConfig)
	require.NoError(t, err)
	var status struct {
		Registered bool `json:"registered"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Registered)
}
