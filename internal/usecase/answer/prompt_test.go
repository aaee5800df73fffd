package answer

import (
	"strings"
	"testing"

	"github.com/askora-cloud/askora/internal/domain/modality"
)

func TestBuildPrompt_InternalText(t *testing.T) {
	p := buildPrompt("what is DNA?", "DNA stores genetic information.", modality.StyleText, "en", false)

	if !strings.Contains(p, "DNA stores genetic information.") {
		t.Error("prompt missing context")
	}
	if !strings.Contains(p, "User Question: what is DNA?") {
		t.Error("prompt missing question")
	}
	if !strings.Contains(p, "numeric citations") {
		t.Error("prompt missing citation instruction")
	}
	if strings.Contains(p, "live web search") {
		t.Error("internal prompt must not mention web search")
	}
}

func TestBuildPrompt_WebMode(t *testing.T) {
	p := buildPrompt("q", "web results", modality.StyleText, "en", true)

	if !strings.Contains(p, "live web search results") {
		t.Error("web prompt missing web note")
	}
}

func TestBuildPrompt_EmptyWebContext(t *testing.T) {
	p := buildPrompt("q", "", modality.StyleText, "en", true)

	if !strings.Contains(p, "could not find relevant information") {
		t.Error("prompt missing no-information instruction")
	}
}

func TestBuildPrompt_UnknownStyleUsesTextInstruction(t *testing.T) {
	p := buildPrompt("q", "ctx", modality.Style("hologram"), "en", false)

	if !strings.Contains(p, "well-structured written text") {
		t.Error("prompt missing default text instruction")
	}
}

func TestBuildPrompt_ArabicLabels(t *testing.T) {
	p := buildPrompt("سؤال", "سياق", modality.StyleText, "ar", false)

	if !strings.Contains(p, "سؤال المستخدم") {
		t.Error("prompt missing Arabic question label")
	}
	if strings.Contains(p, "User Question") {
		t.Error("Arabic prompt must not use English labels")
	}
}
