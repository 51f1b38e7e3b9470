package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/sites"
)

func linkedin(t *testing.T) *sites.SiteConfig {
	site, err := sites.Get("linkedin")
	require.NoError(t, err)
	return site
}

func TestParseOffers_IgnoresSurroundingProse(t *testing.T) {
	response := `Here are the offers: [{"title":"Dev","url":"https://x/1"}] Thanks!`

	offers := ParseOffers(response, linkedin(t))
	require.Len(t, offers, 1)
	assert.Equal(t, "Dev", offers[0].Title)
	assert.Equal(t, "https://x/1", offers[0].URL)
	assert.Equal(t, "linkedin", offers[0].Source)
}

func TestParseOffers_FiltersMissingTitleOrURL(t *testing.T) {
	response := `[
		{"title":"Kept","url":"https://x/1"},
		{"title":"","url":"https://x/2"},
		{"title":"No URL","url":""},
		{"url":"https://x/3"}
	]`

	offers := ParseOffers(response, linkedin(t))
	require.Len(t, offers, 1)
	assert.Equal(t, "Kept", offers[0].Title)
}

func TestParseOffers_ResolvesRelativeURLs(t *testing.T) {
	response := `[{"title":"Dev","url":"/jobs/view/42"}]`

	offers := ParseOffers(response, linkedin(t))
	require.Len(t, offers, 1)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/42", offers[0].URL)
}

func TestParseOffers_NullOptionalFields(t *testing.T) {
	response := `[{"title":"Dev","url":"https://x/1","salary":null,"contract_type":"CDI"}]`

	offers := ParseOffers(response, linkedin(t))
	require.Len(t, offers, 1)
	assert.Empty(t, offers[0].Salary)
	assert.Equal(t, "CDI", offers[0].ContractType)
}

func TestParseOffers_CapsAtMaxOffers(t *testing.T) {
	response := "["
	for i := 0; i < 100; i++ {
		if i > 0 {
			response += ","
		}
		response += fmt.Sprintf(`{"title":"Dev %d","url":"https://x/%d"}`, i, i)
	}
	response += "]"

	offers := ParseOffers(response, linkedin(t))
	assert.Len(t, offers, MaxOffers)
}

func TestParseOffers_MalformedInputYieldsEmpty(t *testing.T) {
	for _, response := range []string{
		"no json here at all",
		"[{not valid json}]",
		"",
	} {
		assert.Empty(t, ParseOffers(response, linkedin(t)), "input: %s", response)
	}
}

// fakeLLM returns a scripted response or error.
type fakeLLM struct {
	response string
	err      error
	prompts  []interfaces.Message
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.prompts = append(f.prompts, messages...)
	return f.response, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func TestExtract_ModelErrorDegradesToEmpty(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("rate limited")}, common.GetLogger())

	offers := svc.Extract(context.Background(), models.SearchCriteria{Query: "golang"}, linkedin(t), "snapshot", nil)
	assert.Empty(t, offers)
}

func TestExtract_SendsExclusionsAndCapsLinks(t *testing.T) {
	llm := &fakeLLM{response: `[{"title":"Dev","url":"https://x/1"}]`}
	svc := NewService(llm, common.GetLogger())

	links := make([]string, 100)
	for i := range links {
		links[i] = fmt.Sprintf("https://x/%d", i)
	}

	criteria := models.SearchCriteria{Query: "golang", ExcludedKeywords: []string{"php", "senior"}}
	offers := svc.Extract(context.Background(), criteria, linkedin(t), "snapshot text", links)

	require.Len(t, offers, 1)
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1].Content, "php, senior")
	assert.NotContains(t, llm.prompts[1].Content, "https://x/80")
	assert.Contains(t, llm.prompts[1].Content, "https://x/74")
}
