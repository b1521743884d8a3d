package llm

import "context"

// Mock is a scripted Service for tests. Each capability either returns its
// scripted value or Err. Calls are recorded for assertions.
type Mock struct {
	SummaryText string
	RecapText   string
	Replies     []string // consumed one per Send
	Err         error    // returned by every capability when set

	SummarizeCalls []SummaryRequest
	StartCalls     []Grounding
	SendCalls      []string
	RecapCalls     [][]Turn

	replyIndex int
}

var _ Service = (*Mock)(nil)

func (m *Mock) Summarize(_ context.Context, req SummaryRequest) (string, error) {
	m.SummarizeCalls = append(m.SummarizeCalls, req)
	if m.Err != nil {
		return "", &ServiceError{Message: MsgSummarizeFailed, Err: m.Err}
	}
	if m.SummaryText == "" {
		return MsgNoSummary, nil
	}
	return m.SummaryText, nil
}

func (m *Mock) StartConversation(g Grounding) Conversation {
	m.StartCalls = append(m.StartCalls, g)
	return &mockConversation{mock: m}
}

func (m *Mock) SummarizeConversation(_ context.Context, turns []Turn, _ string) (string, error) {
	m.RecapCalls = append(m.RecapCalls, turns)
	if m.Err != nil {
		return "", &ServiceError{Message: MsgSummarizeFailed, Err: m.Err}
	}
	return m.RecapText, nil
}

type mockConversation struct {
	mock *Mock
}

func (c *mockConversation) Send(_ context.Context, message string) (string, error) {
	m := c.mock
	m.SendCalls = append(m.SendCalls, message)
	if m.Err != nil {
		return "", &ServiceError{Message: MsgSendFailed, Err: m.Err}
	}
	if m.replyIndex < len(m.Replies) {
		reply := m.Replies[m.replyIndex]
		m.replyIndex++
		return reply, nil
	}
	return MsgNoReply, nil
}
