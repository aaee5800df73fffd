package domain

import "errors"

var (
	// ErrInvalidInput signals a contract violation by the caller.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrJudgeUnavailable signals that the relevance-judgment call failed.
	ErrJudgeUnavailable = errors.New("relevance judge unavailable")
	// ErrWebSearchFailed signals a web search transport or API failure.
	ErrWebSearchFailed = errors.New("web search failed")
	// ErrRetrievalFailed signals a document retrieval backend failure.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrGenerationFailed signals a text generation provider failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrNoAnswer signals an empty or unusable generation response.
	ErrNoAnswer = errors.New("no answer produced")
	// ErrSynthesis signals that speech synthesis returned no audio data.
	ErrSynthesis = errors.New("speech synthesis failed")
	// ErrVideoGeneration signals a lip-sync video generation failure.
	ErrVideoGeneration = errors.New("video generation failed")
	// ErrUpstreamTimeout signals that a collaborator call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("upstream timeout")
)
