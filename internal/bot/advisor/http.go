package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

const (
	cardPath     = "/v1/advise/card"
	contractPath = "/v1/advise/contract"
)

// HTTPAdvisor is the JSON-over-HTTP client for the reasoning service. Every
// request carries a short-lived HS256 bearer token and a uuid request ID.
type HTTPAdvisor struct {
	client   *http.Client
	endpoint string
	issuer   string
	secret   []byte
}

// NewHTTPAdvisor builds a client for the service at endpoint. The per-call
// deadline comes from the caller's context, so the underlying http.Client
// carries no timeout of its own.
func NewHTTPAdvisor(endpoint, issuer, secret string) *HTTPAdvisor {
	return &HTTPAdvisor{
		client:   &http.Client{},
		endpoint: endpoint,
		issuer:   issuer,
		secret:   []byte(secret),
	}
}

type wireResponse struct {
	BestCard   *int    `json:"best_card"`
	Contract   string  `json:"contract"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	ModelUsed  string  `json:"model_used"`
	Success    bool    `json:"success"`
	Error      string  `json:"error"`
}

// AdviseCard asks for a card suggestion. The returned index is unvalidated;
// the caller owns legality checking.
func (a *HTTPAdvisor) AdviseCard(ctx context.Context, req CardRequest) Result {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	res, wire := a.do(ctx, cardPath, req)
	if res.Status != StatusSuccess {
		return res
	}
	if wire.BestCard == nil || *wire.BestCard < 0 || *wire.BestCard > 51 {
		return Result{Status: StatusInvalid, Reason: "best_card missing or out of range"}
	}
	res.CardIndex = *wire.BestCard
	return res
}

// AdviseContract asks for a contract suggestion for the king seat.
func (a *HTTPAdvisor) AdviseContract(ctx context.Context, req ContractRequest) Result {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	res, wire := a.do(ctx, contractPath, req)
	if res.Status != StatusSuccess {
		return res
	}
	if wire.Contract == "" {
		return Result{Status: StatusInvalid, Reason: "contract missing"}
	}
	res.Contract = wire.Contract
	return res
}

func (a *HTTPAdvisor) do(ctx context.Context, path string, payload any) (Result, wireResponse) {
	var wire wireResponse

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Status: StatusInvalid, Reason: fmt.Sprintf("encode request: %v", err)}, wire
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return Result{Status: StatusTransportError, Reason: fmt.Sprintf("build request: %v", err)}, wire
	}
	token, err := a.bearerToken()
	if err != nil {
		return Result{Status: StatusTransportError, Reason: fmt.Sprintf("sign token: %v", err)}, wire
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{Status: StatusTimeout, Reason: "deadline exceeded"}, wire
		}
		return Result{Status: StatusTransportError, Reason: err.Error()}, wire
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Status: StatusTransportError, Reason: fmt.Sprintf("http status %d", resp.StatusCode)}, wire
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Result{Status: StatusInvalid, Reason: fmt.Sprintf("decode response: %v", err)}, wire
	}
	if !wire.Success {
		reason := wire.Error
		if reason == "" {
			reason = "service reported failure"
		}
		return Result{Status: StatusInvalid, Reason: reason}, wire
	}
	return Result{
		Status:     StatusSuccess,
		Confidence: wire.Confidence,
		Rationale:  wire.Reasoning,
		Model:      wire.ModelUsed,
	}, wire
}

// bearerToken signs a short-lived HS256 token the service validates.
func (a *HTTPAdvisor) bearerToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": a.issuer,
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
