package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/studyforge/studyforge/internal/models"
)

const testPage = `<html>
<head><title>Raft Explained</title></head>
<body>
	<nav>Home | About</nav>
	<script>trackVisitors()</script>
	<article>
		<h1>Understanding Raft</h1>
		<p>Raft elects a single leader per term.</p>
	</article>
	<footer>Copyright</footer>
</body>
</html>`

func TestFetchURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testPage)
	}))
	defer server.Close()

	service := NewService(arbor.NewLogger())
	title, text, err := service.FetchURL(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Raft Explained", title)
	assert.Contains(t, text, "Understanding Raft")
	assert.Contains(t, text, "Raft elects a single leader per term.")
	// Boilerplate never reaches the text
	assert.NotContains(t, text, "trackVisitors")
	assert.NotContains(t, text, "Copyright")
}

func TestFetchURL_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := NewService(arbor.NewLogger())
	_, _, err := service.FetchURL(context.Background(), server.URL)

	require.Error(t, err)
	var extractionErr *models.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestFetchURL_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	service := NewService(arbor.NewLogger())
	_, _, err := service.FetchURL(context.Background(), server.URL)

	require.Error(t, err)
	var extractionErr *models.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestMainContentHTML_FallsBackToBody(t *testing.T) {
	service := NewService(arbor.NewLogger())

	text, err := service.htmlToText(`<html><body><p>No article wrapper here.</p></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, text, "No article wrapper here.")
}
