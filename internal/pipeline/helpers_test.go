package pipeline

import "github.com/theirongolddev/gitlore/internal/model"

func strPtr(s string) *string { return &s }

func commitAt(ts string, paths ...string) model.Commit {
	c := model.Commit{Hash: "h-" + ts, Timestamp: ts}
	for _, p := range paths {
		c.FilesChanged = append(c.FilesChanged, model.FileChange{Path: p})
	}
	return c
}

func prompt(session, text string) model.PromptSession {
	return model.PromptSession{SessionID: session, PromptText: text}
}
