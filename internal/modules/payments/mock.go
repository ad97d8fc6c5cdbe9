package payments

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

const mockSignatureHeader = "X-Mock-Signature"

// MockProvider is an in-memory gateway for local development and tests. It
// issues session/intent ids, lets a test flip an intent to succeeded, and
// verifies webhooks with the same t=...,v1=... HMAC scheme the mockwebhook
// tool signs with.
type MockProvider struct {
	secret []byte

	mu       sync.Mutex
	sessions map[string]Session
	intents  map[string]PaymentIntent
}

func NewMockProvider(secret string) *MockProvider {
	return &MockProvider{
		secret:   []byte(secret),
		sessions: make(map[string]Session),
		intents:  make(map[string]PaymentIntent),
	}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (string, error) {
	_ = ctx
	if req.AmountCents <= 0 {
		return "", fmt.Errorf("mock: non-positive amount %d", req.AmountCents)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	sessionID := "cs_mock_" + randomHex(12)
	intentID := "pi_mock_" + randomHex(12)

	meta := make(map[string]string, len(req.Metadata))
	for k, v := range req.Metadata {
		meta[k] = v
	}

	p.sessions[sessionID] = Session{
		ID:              sessionID,
		AmountCents:     req.AmountCents,
		Metadata:        meta,
		PaymentIntentID: intentID,
		PaymentStatus:   "unpaid",
	}
	p.intents[intentID] = PaymentIntent{ID: intentID, Status: "requires_payment_method"}
	return sessionID, nil
}

func (p *MockProvider) RetrieveSession(ctx context.Context, sessionID string) (Session, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (p *MockProvider) RetrievePaymentIntent(ctx context.Context, intentID string) (PaymentIntent, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()

	pi, ok := p.intents[intentID]
	if !ok {
		return PaymentIntent{}, ErrIntentNotFound
	}
	return pi, nil
}

// CompletePayment simulates the donor finishing the hosted checkout page.
func (p *MockProvider) CompletePayment(sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.PaymentStatus = "paid"
	p.sessions[sessionID] = s
	p.intents[s.PaymentIntentID] = PaymentIntent{ID: s.PaymentIntentID, Status: IntentSucceeded}
	return nil
}

type mockWebhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		SessionID string            `json:"session_id"`
		Metadata  map[string]string `json:"metadata"`
	} `json:"data"`
}

func (p *MockProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error) {
	header := headers.Get(mockSignatureHeader)
	t, sig, err := parseMockSignature(header)
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	expected := computeMockSig(p.secret, t, body)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return WebhookEvent{}, fmt.Errorf("%w: signature mismatch", ErrSignatureInvalid)
	}

	var payload mockWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookEvent{}, fmt.Errorf("parse mock webhook payload: %w", err)
	}
	if payload.ID == "" || payload.Type == "" {
		return WebhookEvent{}, fmt.Errorf("parse mock webhook payload: missing id or type")
	}

	ev := WebhookEvent{EventID: payload.ID, Type: payload.Type}
	if ev.Type == EventCheckoutCompleted {
		ev.SessionID = payload.Data.SessionID
		ev.Metadata = payload.Data.Metadata
	}
	return ev, nil
}

// SignPayload produces the signature header for a given body; shared with the
// mockwebhook tool and the handler tests.
func SignPayload(secret []byte, t int64, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", t, computeMockSig(secret, t, body))
}

func parseMockSignature(header string) (int64, string, error) {
	if header == "" {
		return 0, "", fmt.Errorf("missing %s header", mockSignatureHeader)
	}

	var t int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, "", fmt.Errorf("bad timestamp: %v", err)
			}
			t = n
		case "v1":
			sig = v
		}
	}
	if t == 0 || sig == "" {
		return 0, "", fmt.Errorf("malformed signature header")
	}
	return t, sig, nil
}

func computeMockSig(secret []byte, t int64, body []byte) string {
	m := hmac.New(sha256.New, secret)
	m.Write([]byte(strconv.FormatInt(t, 10)))
	m.Write([]byte("."))
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strings.Repeat("0", n*2)
	}
	return hex.EncodeToString(b)
}
