// Package answer turns a question and a corpus into generated prose plus a
// heuristic confidence estimate. The generation call is the only network
// dependency; everything else is computable offline.
package answer

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/internal/retrieval"
	"github.com/JohnChood2/grimdark-scholar/pkg/anthropic"
)

// fallbackSource is returned when no specific source entries back an answer.
const fallbackSource = "https://wh40k.lexicanum.com/wiki/Main_Page"

const systemPrompt = `You are a knowledgeable expert on Warhammer 40K lore. You have access to information from the Lexicanum wiki, which is a comprehensive source for Warhammer 40K information.

Guidelines for answering:
1. Be accurate and detailed in your responses
2. Use proper Warhammer 40K terminology and names
3. If the context doesn't contain enough information, say so clearly
4. Provide specific examples and details when available
5. Maintain the grimdark tone appropriate to the setting

Always be helpful and informative while staying true to the established lore.`

const userPromptFormat = `Context from Warhammer 40K Lexicanum:
%s

Question: %s

Please provide a detailed and accurate answer based on the context above. If the context doesn't contain enough information to fully answer the question, please provide what information is available.`

// Service answers lore questions: it retrieves a bounded context window from
// the corpus, calls the generation provider, and scores the result.
type Service struct {
	client  anthropic.Client
	cfg     config.AnthropicConfig
	rankCfg config.RankConfig
}

// NewService creates an answer Service.
func NewService(client anthropic.Client, cfg config.AnthropicConfig, rankCfg config.RankConfig) *Service {
	return &Service{client: client, cfg: cfg, rankCfg: rankCfg}
}

// Ask answers a question against the corpus. An empty corpus or an empty
// context window yields a canned low-confidence answer without a provider
// call; a provider failure is returned as an error for the caller to handle.
func (s *Service) Ask(ctx context.Context, question string, corpus model.Corpus) (*model.Answer, error) {
	if len(corpus) == 0 {
		return &model.Answer{
			Answer:     "I don't have access to the Lexicanum data yet. Please run the scraping process first to populate the knowledge base.",
			Confidence: emptyCorpusConf,
			Sources:    []string{fallbackSource},
		}, nil
	}

	top := retrieval.TopEntries(question, corpus, s.rankCfg)
	contextWindow := retrieval.BuildContext(question, corpus, s.rankCfg)
	if contextWindow == "" {
		return &model.Answer{
			Answer:     "I couldn't find relevant information in the knowledge base to answer your question. The knowledge base might need to be updated with more data.",
			Confidence: emptyContextConf,
			Sources:    []string{fallbackSource},
		}, nil
	}

	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(userPromptFormat, contextWindow, question)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "answer: generate")
	}

	text := resp.Text()
	result := &model.Answer{
		Answer:     text,
		Confidence: Confidence(text, contextWindow, question),
		Sources:    sources(top),
	}

	zap.L().Info("question answered",
		zap.String("question", question),
		zap.Float64("confidence", result.Confidence),
		zap.Int("context_len", len(contextWindow)),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return result, nil
}

// sources returns up to three source URLs from the entries backing the
// context window, falling back to the wiki main page.
func sources(entries []model.Entry) []string {
	var out []string
	for _, e := range entries {
		if e.URL != "" {
			out = append(out, e.URL)
		}
		if len(out) == 3 {
			break
		}
	}
	if len(out) == 0 {
		return []string{fallbackSource}
	}
	return out
}
