package answer

import (
	"fmt"
	"unicode"

	"github.com/askora-cloud/askora/internal/domain/modality"
)

// styleInstructions tailor the answer phrasing to the requested
// delivery modality before any packaging happens.
var styleInstructions = map[modality.Style]string{
	modality.StyleText: "Explain clearly in well-structured written text.",

	modality.StyleAudio: `Answer like a short podcast chat between two people, Joe and Jane.
Joe asks simple questions, and Jane explains the topic clearly and naturally.
Keep it friendly, short, and easy to understand.`,

	modality.StyleVisual: "Explain in a way that could be easily turned into diagrams or visuals. Use concise, spatial descriptions.",

	modality.StyleByQuestion: "Teach Socratically: respond with a sequence of guiding questions instead of direct exposition.",

	modality.StyleVideo: "Write a smooth narration for a short educational video. Do not include scene directions or character names. Make it sound like a clear voiceover script.",
}

const arabicSystemPrompt = "أنت مساعد متخصص في تحليل المستندات. أجب على سؤال المستخدم باستخدام السياق المقدم فقط. " +
	"استخدم الاستشهادات المرقمة مثل [1]، [2] في إجابتك. " +
	"أجب باللغة العربية فقط. إذا لم تجد الإجابة في السياق، أخبر المستخدم بذلك بوضوح.\n\n"

// detectLanguage classifies a query as Arabic or English by the share
// of Arabic letters among all letters. Threshold matches the UI's
// expectation that mixed-script queries lean English.
func detectLanguage(text string) string {
	arabic, total := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	if total == 0 {
		return "en"
	}
	if float64(arabic)/float64(total) > 0.3 {
		return "ar"
	}
	return "en"
}

const webNoteEN = "The context below comes from live web search results, not the document corpus.\n\n"
const webNoteAR = "السياق أدناه مأخوذ من نتائج بحث مباشرة على الإنترنت وليس من المستند.\n\n"

const noContextNoteEN = "No grounding information was found for this question. Clearly tell the user you could not find relevant information.\n\n"
const noContextNoteAR = "لم يتم العثور على معلومات لهذا السؤال. أخبر المستخدم بوضوح أنك لم تجد معلومات ذات صلة.\n\n"

// buildPrompt assembles the grounded answer prompt. webMode marks
// context that came from live search; an empty context instructs the
// model to say that nothing was found instead of hallucinating.
func buildPrompt(query, context string, style modality.Style, lang string, webMode bool) string {
	var system string
	if lang == "ar" {
		system = arabicSystemPrompt
	} else {
		instruction, ok := styleInstructions[style]
		if !ok {
			instruction = styleInstructions[modality.StyleText]
		}
		system = "You are an expert document analyst. Answer the user's question using ONLY the provided context. " +
			"Cite sources inline using numeric citations like [1], [2]. " +
			"Answer in English only. If the answer is not present in the provided context, clearly state that you cannot find it.\n\n" +
			fmt.Sprintf("Adapt your explanation to this learning style: %s\n\n", instruction)
	}

	if webMode {
		if lang == "ar" {
			system += webNoteAR
		} else {
			system += webNoteEN
		}
	}
	if context == "" {
		if lang == "ar" {
			system += noContextNoteAR
		} else {
			system += noContextNoteEN
		}
	}

	questionLabel := "User Question"
	answerLabel := "Answer with inline citations"
	if lang == "ar" {
		questionLabel = "سؤال المستخدم"
		answerLabel = "الإجابة مع الاستشهادات"
	}

	return system + context + fmt.Sprintf("\n\n%s: %s\n\n%s:", questionLabel, query, answerLabel)
}
