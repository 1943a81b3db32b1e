package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibepm/internal/auth"
	"vibepm/internal/board"
	"vibepm/internal/model"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := RootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"serve", "migrate", "purge", "token", "promote", "board"}, names)
}

func TestTokenCmd_IssuesParsableToken(t *testing.T) {
	// Arrange
	t.Setenv("JWT_SECRET", "cli-secret")
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--subject", "me"})

	// Act
	err := root.Execute()

	// Assert
	require.NoError(t, err)
	subject, err := auth.NewIssuer("cli-secret", time.Hour).ParseToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "me", subject)
}

func TestTokenCmd_WithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	root := RootCmd()
	root.SetArgs([]string{"token"})

	assert.Error(t, root.Execute())
}

func TestFindCard(t *testing.T) {
	b := board.Place(
		[]model.Task{
			{ID: "t1", Status: model.TaskTodo},
			{ID: "t2", Status: model.TaskTodo},
			{ID: "t3", Status: model.TaskInProgress},
		},
		[]model.Prompt{{ID: "p1", TaskID: strPtr("t2")}},
	)

	item, lane, ok := findCard(b, "t2")
	require.True(t, ok)
	assert.Equal(t, board.LanePrompts, lane)
	assert.Equal(t, board.ItemPrompt, item.Kind)
	assert.Equal(t, "p1", item.PromptID)

	item, lane, ok = findCard(b, "t3")
	require.True(t, ok)
	assert.Equal(t, board.LaneInProgress, lane)
	assert.Equal(t, board.ItemTask, item.Kind)

	_, _, ok = findCard(b, "missing")
	assert.False(t, ok)
}

func TestPromoteCmd_SkipsQuestionsAndLinksCapture(t *testing.T) {
	// Arrange
	var created map[string]string
	var linked map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/quick-capture/c1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"c1","content":"habit app","analysis":"solid idea"}`))
	})
	mux.HandleFunc("POST /api/promote-to-project/generate", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"suggestedName":"Habit","suggestedProblem":"p","suggestedMvp":"m",` +
			`"clarifyingQuestions":[{"id":"q1","question":"Who?","hint":"h"}]}`))
	})
	mux.HandleFunc("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&created)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p1","slug":"streaks","name":"Streaks"}`))
	})
	mux.HandleFunc("PATCH /api/quick-capture/c1", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&linked)
		w.Write([]byte(`{}`))
	})
	api := httptest.NewServer(mux)
	defer api.Close()

	root := RootCmd()
	root.SetArgs([]string{"promote", "c1", "--yes", "--name", "Streaks", "--api", api.URL})

	// Act
	err := root.Execute()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Streaks", created["name"])
	assert.Equal(t, "p", created["problem"])
	assert.Equal(t, map[string]string{"projectId": "p1"}, linked)
}

func strPtr(s string) *string { return &s }
