package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks returns the component handler (prompt, chat model) and the
// graph node handler. Attach them with compose.WithCallbacks(...).
func NewAllCallbacks() []einocb.Handler {
	componentHandler := callbackHelper.NewHandlerHelper().
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Handler()

	return []einocb.Handler{componentHandler, newNodeHandler()}
}
