// Package buttons stores configurable buttons: a name plus one typed action.
//
// Action is a closed union over OpenURL, Webhook, RunTool and CopyText. On the
// wire and in storage it is the pair {actionType, parameters}; DecodeAction
// turns that pair back into the concrete type and rejects unknown kinds.
package buttons
