package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/store"
)

// Retrieval queries and result counts for each document task. The
// queries steer the vector search toward the sections the prompt needs.
const (
	SummaryQuery = "Provide a detailed technical summary of the entire research paper, covering problem, methods, results, and contributions."
	SummaryK     = 10

	AbstractQuery = "Extract the abstract and main motivation or objective of this research paper."
	AbstractK     = 5

	ApproachQuery = "Describe the proposed methodology, approach, algorithms, or framework presented in this paper."
	ApproachK     = 10

	KeywordsQuery = "Identify the main topics, concepts, and keywords of this research paper."
	KeywordsK     = 10

	ResultsQuery = "Extract the results, findings, and discussion sections of this research paper."
	ResultsK     = 15

	QuestionK = 10

	// QuestionFallbackK bounds the broad retrieval used when the
	// question itself matches nothing.
	QuestionFallbackK = 5
)

// Service runs the document tasks against a generator.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// NewService wraps a generator. A nil generator yields a service whose
// operations return ErrNotConfigured, which lets the API degrade to
// chunk-only responses.
func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gen:    gen,
		logger: logger,
	}
}

// Configured reports whether a generator backend is available.
func (s *Service) Configured() bool {
	return s.gen != nil
}

// Summarize produces a structured summary of the paper from the
// retrieved chunks.
func (s *Service) Summarize(ctx context.Context, chunks []store.Chunk) (string, error) {
	prompt := fmt.Sprintf(`You are an expert research assistant. Summarize the research paper using only the following sections: **methodology**, **experiments**, and **results**. Avoid references, literature reviews, and conclusions.

Structure in 200-250 words:
1. **Problem Addressed**
2. **Proposed Methodology**
3. **Experimental Setup and Results**
4. **Key Contributions**

Be clear and concise. Avoid academic jargon.

--- CONTENT START ---
%s
--- CONTENT END ---`, joinTexts(chunks))

	return s.generate(ctx, prompt)
}

// Abstract writes an abstract for the paper from the retrieved chunks.
func (s *Service) Abstract(ctx context.Context, chunks []store.Chunk) (string, error) {
	prompt := fmt.Sprintf(`Write a clear and concise abstract (250-300 words) for the research paper based only on **background**, **goals**, **methodology**, and **results**. Do not include references or literature reviews.

Structure:
1. **Background**
2. **Research Goals**
3. **Proposed Solution**
4. **Main Results and Contributions**

Make it accessible and academic in tone.

--- CONTENT START ---
%s
--- CONTENT END ---`, joinTexts(chunks))

	return s.generate(ctx, prompt)
}

// Approach explains the paper's proposed method from the retrieved
// chunks.
func (s *Service) Approach(ctx context.Context, chunks []store.Chunk) (string, error) {
	prompt := fmt.Sprintf(`Explain the **proposed method** from the research paper in 350-400 words. Use only the methodology content. Exclude references and reviews.

Structure your answer as:
1. **Method Overview**
2. **Detailed Steps**
3. **Implementation Details**
4. **Advantages and Novelty**

Use bullet points or short paragraphs where useful. Be precise and clear.

--- CONTENT START ---
%s
--- CONTENT END ---`, joinTexts(chunks))

	return s.generate(ctx, prompt)
}

// Keywords extracts a comma-separated keyword list from the retrieved
// chunks.
func (s *Service) Keywords(ctx context.Context, chunks []store.Chunk) (string, error) {
	prompt := fmt.Sprintf(`Extract 8-12 technical **keywords** from the paper, focusing only on methods and results. Exclude references and reviews.

Return only a comma-separated list like:
keyword1, keyword2, keyword3, ...

--- CONTENT START ---
%s
--- CONTENT END ---`, joinTexts(chunks))

	return s.generate(ctx, prompt)
}

// ResultsDiscussion summarizes the paper's results and discussion from
// the retrieved chunks.
func (s *Service) ResultsDiscussion(ctx context.Context, chunks []store.Chunk) (string, error) {
	prompt := fmt.Sprintf(`Summarize the **results and discussion** section of the paper in 350-400 words. Focus only on evaluation, findings, and interpretation. Exclude references, reviews, and conclusions.

Structure your answer:
1. **Evaluation Metrics**
2. **Key Findings**
3. **Discussion and Interpretation**
4. **Page References** (e.g., [Page 7])

--- CONTENT START ---
%s
--- CONTENT END ---
Pages: %v`, joinTexts(chunks), pagesOf(chunks))

	return s.generate(ctx, prompt)
}

// Answer responds to a free-form question. A first pass asks the model
// which paper sections are relevant, the chunks are narrowed to those
// sections, and a second pass answers from the narrowed content. When
// the narrowing matches nothing the full chunk set is used.
func (s *Service) Answer(ctx context.Context, question string, chunks []store.Chunk) (string, error) {
	if s.gen == nil {
		return "", ErrNotConfigured
	}

	relevant := chunks
	sections, err := s.detectSections(ctx, question)
	if err != nil {
		s.logger.Warn("section detection failed, using all chunks", zap.Error(err))
	} else {
		if narrowed := filterBySections(chunks, sections); len(narrowed) > 0 {
			relevant = narrowed
		}
	}

	prompt := fmt.Sprintf(`Use the following content from a research paper to answer the user's question.

**User's Question:** %s

Be precise and academic. Cite page numbers where possible using [Page X].

--- CONTENT START ---
%s
--- CONTENT END ---

Pages: %v
Chunks used: %d`, question, joinTexts(relevant), pagesOf(relevant), len(relevant))

	return s.generate(ctx, prompt)
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.gen == nil {
		return "", ErrNotConfigured
	}

	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return CleanResponse(out), nil
}

func (s *Service) detectSections(ctx context.Context, question string) ([]string, error) {
	prompt := fmt.Sprintf(`You are an intelligent assistant that classifies academic questions.

Given the user's question:
"%s"

Decide which sections of a research paper are most relevant to answer it. Choose only from the following list (one or more):

- abstract
- background
- methodology
- proposed approach
- experiments
- results
- discussion
- literature survey
- references
- keywords

Return a comma-separated list of the most relevant sections.`, question)

	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(strings.ToLower(CleanResponse(out)), ",")
	sections := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sections = append(sections, p)
		}
	}
	return sections, nil
}

// sectionMarkers maps a detected section name to the substrings that
// identify chunks belonging to it.
var sectionMarkers = map[string][]string{
	"abstract":          {"abstract"},
	"background":        {"background"},
	"methodology":       {"methodology", "method"},
	"proposed approach": {"proposed", "approach"},
	"experiments":       {"experiment"},
	"results":           {"result"},
	"discussion":        {"discussion"},
	"literature":        {"literature", "survey", "related work"},
	"survey":            {"literature", "survey", "related work"},
	"references":        {"reference", "bibliography"},
	"keywords":          {"keyword"},
}

func filterBySections(chunks []store.Chunk, sections []string) []store.Chunk {
	var relevant []store.Chunk
	for _, section := range sections {
		for name, markers := range sectionMarkers {
			if !strings.Contains(section, name) {
				continue
			}
			for _, chunk := range chunks {
				lower := strings.ToLower(chunk.Text)
				for _, marker := range markers {
					if strings.Contains(lower, marker) {
						relevant = append(relevant, chunk)
						break
					}
				}
			}
		}
	}
	return relevant
}

func joinTexts(chunks []store.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, " ")
}

func pagesOf(chunks []store.Chunk) []int {
	pages := make([]int, len(chunks))
	for i, c := range chunks {
		pages[i] = c.Page
	}
	return pages
}
