// Package helpdesk provides a Go client for the helpdesk HTTP API.
//
//	client, _ := helpdesk.New("http://localhost:10000", helpdesk.WithAPIKey(key))
//	ans, _ := client.Ask(ctx, "пароль не работает")
//
// Conversations keep a session id between turns:
//
//	conv := client.Conversation()
//	first, _ := conv.Send(ctx, "Salam")
//	next, _ := conv.Send(ctx, "şifrə işləmir")
//	_ = conv.End(ctx)
package helpdesk
