package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestAdviseCardSuccess(t *testing.T) {
	var got CardRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != cardPath {
			t.Errorf("path = %s, want %s", r.URL.Path, cardPath)
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("missing bearer token, got %q", auth)
		}
		token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(*jwt.Token) (any, error) {
			return []byte("sekrit"), nil
		})
		if err != nil || !token.Valid {
			t.Errorf("token did not verify: %v", err)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		best := 37
		json.NewEncoder(w).Encode(wireResponse{
			BestCard:   &best,
			Confidence: 0.9,
			ModelUsed:  "m1",
			Success:    true,
		})
	}))
	defer srv.Close()

	a := NewHTTPAdvisor(srv.URL, "trix-server", "sekrit")
	res := a.AdviseCard(context.Background(), CardRequest{
		PlayerCards: []int{1, 2, 37},
		ValidCards:  []int{37},
		GameMode:    "king_of_hearts",
		Difficulty:  "hard",
	})
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (%s), want success", res.Status, res.Reason)
	}
	if res.CardIndex != 37 {
		t.Fatalf("card = %d, want 37", res.CardIndex)
	}
	if got.RequestID == "" {
		t.Error("request id was not filled in")
	}
	if got.GameMode != "king_of_hearts" {
		t.Errorf("game_mode = %s", got.GameMode)
	}
}

func TestAdviseCardOutcomes(t *testing.T) {
	badIndex := 99
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected Status
	}{
		{
			name: "missing best card",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(wireResponse{Success: true})
			},
			expected: StatusInvalid,
		},
		{
			name: "out of range best card",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(wireResponse{BestCard: &badIndex, Success: true})
			},
			expected: StatusInvalid,
		},
		{
			name: "service reported failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(wireResponse{Success: false, Error: "model unavailable"})
			},
			expected: StatusInvalid,
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			expected: StatusTransportError,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			expected: StatusInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			a := NewHTTPAdvisor(srv.URL, "trix-server", "sekrit")
			res := a.AdviseCard(context.Background(), CardRequest{})
			if res.Status != tt.expected {
				t.Fatalf("status = %v, want %v (%s)", res.Status, tt.expected, res.Reason)
			}
		})
	}
}

func TestAdviseCardTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	a := NewHTTPAdvisor(srv.URL, "trix-server", "sekrit")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := a.AdviseCard(ctx, CardRequest{})
	if res.Status != StatusTimeout {
		t.Fatalf("status = %v, want timeout (%s)", res.Status, res.Reason)
	}
}

func TestAdviseContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != contractPath {
			t.Errorf("path = %s, want %s", r.URL.Path, contractPath)
		}
		json.NewEncoder(w).Encode(wireResponse{Contract: "queens", Success: true})
	}))
	defer srv.Close()

	a := NewHTTPAdvisor(srv.URL, "trix-server", "sekrit")
	res := a.AdviseContract(context.Background(), ContractRequest{AvailableContracts: []string{"queens", "trex"}})
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v, want success (%s)", res.Status, res.Reason)
	}
	if res.Contract != "queens" {
		t.Fatalf("contract = %s, want queens", res.Contract)
	}
}
