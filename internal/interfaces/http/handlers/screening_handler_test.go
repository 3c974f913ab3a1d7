package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SakuraScope/internal/application/screening"
	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

type stubScreener struct {
	gotKeyword string
	gotMax     int
	res        *screening.Result
	err        error
}

func (s *stubScreener) Screen(_ context.Context, keyword string, max int) (*screening.Result, error) {
	s.gotKeyword, s.gotMax = keyword, max
	return s.res, s.err
}

func stubResult() *screening.Result {
	return &screening.Result{
		RunID:            "run-42",
		Keyword:          "lamp",
		Found:            2,
		Processed:        2,
		RecommendedCount: 1,
		Candidates: []screening.Candidate{
			{Product: product.MustNew("L1", "Lamp 1"), Recommended: true, Disposition: screening.DispositionRecommended},
			{Product: product.MustNew("L2", "Lamp 2"), Disposition: screening.DispositionSuspicious, Suspicious: true},
		},
	}
}

type screenBody struct {
	RunID      string `json:"run_id"`
	Candidates []struct {
		Product     map[string]interface{} `json:"product"`
		Disposition string                 `json:"disposition"`
	} `json:"candidates"`
}

func TestScreeningHandler_Screen(t *testing.T) {
	s := &stubScreener{res: stubResult()}
	h := NewScreeningHandler(s, 0, nil)

	w := post(h.Screen, "/api/v1/screen", `{"keyword":"lamp","max":5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "lamp", s.gotKeyword)
	assert.Equal(t, 5, s.gotMax)

	var resp screenBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-42", resp.RunID)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "L1", resp.Candidates[0].Product["asin"])
	assert.Equal(t, "suspicious", resp.Candidates[1].Disposition)
}

func TestScreeningHandler_RecommendedOnly(t *testing.T) {
	h := NewScreeningHandler(&stubScreener{res: stubResult()}, 0, nil)

	w := post(h.Screen, "/api/v1/screen", `{"keyword":"lamp","recommended_only":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp screenBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "recommended", resp.Candidates[0].Disposition)
}

func TestScreeningHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"negative max", `{"keyword":"lamp","max":-1}`, nil, http.StatusBadRequest, "COMMON_002"},
		{"blank keyword", `{"keyword":" "}`, errors.InvalidParam("screening: keyword must not be empty"), http.StatusBadRequest, "COMMON_002"},
		{"provider down", `{"keyword":"lamp"}`, errors.New(errors.ErrCodeSearchProviderFailed, "search provider failed"), http.StatusBadGateway, "SAK_006"},
		{"cancelled", `{"keyword":"lamp"}`, errors.Wrap(context.Canceled, errors.ErrCodeTimeout, "screening cancelled"), http.StatusGatewayTimeout, "COMMON_009"},
		{"internal", `{"keyword":"lamp"}`, errors.New(errors.ErrCodeAnalysisFailed, "secret detail"), http.StatusInternalServerError, "COMMON_001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScreeningHandler(&stubScreener{err: tt.err}, 0, nil)
			w := post(h.Screen, "/api/v1/screen", tt.body)
			assert.Equal(t, tt.status, w.Code)
			e := decodeError(t, w)
			assert.Equal(t, tt.code, e.Code)
			assert.NotContains(t, e.Message, "secret")
		})
	}
}

//Personal.AI order the ending
