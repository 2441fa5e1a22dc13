package recommend

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(parts ...genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: "model", Parts: parts}}
}

func TestResponseTextEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"no parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate()}}},
		{"blob only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			candidate(genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestResponseTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		candidate(
			genai.Text(`{"diet": ["Eat oats"], `),
			genai.Blob{MIMEType: "image/png", Data: []byte{1}},
			genai.Text(`"exercise": ["Walk"], "lifestyle": ["Rest"]}`),
		),
		candidate(genai.Text("ignored second candidate")),
	}}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.NotContains(t, text, "ignored")

	res := Parse(text)
	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, StageStrict, res.Stage)
	assert.Equal(t, []string{"Eat oats"}, res.Set.Diet)
}
