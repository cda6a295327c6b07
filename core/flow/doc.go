// Package flow implements a conversational form engine for Telegram
// bots. A flow is a set of named steps; each step renders a prompt and
// declares triggers that consume the user's reply and move the session
// to the next step. Sessions carry a navigation stack so a shared back
// button can return to the previous step of any form.
//
// The engine is generic over a dependency bundle D supplied by the
// application, so step handlers receive typed access to repositories
// and services instead of a reflection-driven container.
package flow
