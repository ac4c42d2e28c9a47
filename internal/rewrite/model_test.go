package rewrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewModel(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")

	m, err := NewModel(ModelOptions{Model: "llama3.2"})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	om, ok := m.(*OllamaModel)
	if !ok {
		t.Fatalf("default model is %T, want *OllamaModel", m)
	}
	if om.baseURL != DefaultOllamaHost {
		t.Errorf("baseURL = %q, want %q", om.baseURL, DefaultOllamaHost)
	}

	if _, err := NewModel(ModelOptions{Provider: "openai", Model: "gpt-4o-mini"}); err == nil {
		t.Error("expected an error without an OpenAI key")
	}
	if _, err := NewModel(ModelOptions{Provider: "bard"}); err == nil {
		t.Error("expected an error for an unknown provider")
	}

	m, err = NewModel(ModelOptions{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test", RPM: 30})
	if err != nil {
		t.Fatalf("NewModel openai: %v", err)
	}
	if _, ok := m.(*limitedModel); !ok {
		t.Errorf("RPM > 0 should wrap the model, got %T", m)
	}
	if m.Name() != "openai/gpt-4o-mini" {
		t.Errorf("Name = %q", m.Name())
	}
}

func TestOllamaGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "Take a look at these!", Done: true})
	}))
	defer srv.Close()

	m := NewOllamaModel(srv.URL+"/", "llama3.2")
	out, err := m.Generate(context.Background(), Prompt{System: systemPrompt, Text: "Here are the products", MaxTokens: 64})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Take a look at these!" {
		t.Errorf("Generate = %q", out)
	}
	if got.Model != "llama3.2" || got.System != systemPrompt || got.Prompt != "Here are the products" || got.Stream {
		t.Errorf("request = %+v", got)
	}
	if got.Options.NumPredict != 64 {
		t.Errorf("num_predict = %d", got.Options.NumPredict)
	}
}

func TestOllamaGenerateStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `model "llama3.2" not found`, http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewOllamaModel(srv.URL, "llama3.2").Generate(context.Background(), Prompt{Text: "hi"}); err == nil {
		t.Fatal("expected an error for a 404")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var messages []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		var body struct {
			Messages []map[string]string `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		messages = body.Messages
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Fresh picks for you!"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	m := NewOpenAIModel("sk-test", "gpt-4o-mini", srv.URL+"/v1")
	out, err := m.Generate(context.Background(), Prompt{System: systemPrompt, Text: "Here are the products"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Fresh picks for you!" {
		t.Errorf("Generate = %q", out)
	}
	if len(messages) != 2 || messages[0]["role"] != "system" || messages[1]["content"] != "Here are the products" {
		t.Errorf("messages = %v", messages)
	}
}

func TestLimit(t *testing.T) {
	inner := &stubModel{content: "ok"}
	m := Limit(inner, 60)

	if _, err := m.Generate(context.Background(), Prompt{Text: "a"}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := m.Generate(ctx, Prompt{Text: "b"}); err == nil {
		t.Error("second call within the same second should be refused")
	}
	if inner.calls != 1 {
		t.Errorf("inner model called %d times, want 1", inner.calls)
	}
}
