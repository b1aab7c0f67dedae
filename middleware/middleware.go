// Copyright (C) 2025 convos-org
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package middleware implements the join-request state machine: it
// classifies every inbound DM as a pass-through, a sender to block, a
// structured error to send, or an invite to emit to registered handlers,
// and drives the accept/reject side effects those handlers request.
package middleware

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/convos-org/convos-invite/internal/logger"
	"github.com/convos-org/convos-invite/internal/metrics"
	"github.com/convos-org/convos-invite/invite"
	"github.com/convos-org/convos-invite/joinerror"
	"github.com/convos-org/convos-invite/primitives"
	"github.com/convos-org/convos-invite/substrate"
)

// malformedInviteRecognizer matches text that looks like a mangled invite
// slug even though it failed to parse: base64url-and-"*" characters, at
// least 50 of them. Text this shape is blocked rather than passed through,
// since a real user is unlikely to type it.
var malformedInviteRecognizer = regexp.MustCompile(`^[A-Za-z0-9_\-*]+$`)

const malformedInviteMinLength = 50

// Delivery is the narrow view of an inbound DM the engine classifies:
// the message content, who sent it, and the DM conversation it arrived
// on, without exposing the substrate's concrete message type.
type Delivery struct {
	Content       substrate.MessageContent
	SenderInboxID string
	Conversation  substrate.Conversation
}

// outcome is the internal classification result before any substrate I/O
// beyond what classification itself requires.
type outcome int

const (
	outcomeNotJoinRequest outcome = iota
	outcomeBlockSender
	outcomeSendError
	outcomeProceed
)

// InviteEvent is handed to registered handlers once a join request has
// been fully authenticated: signature verified, creator bound, neither
// invite nor conversation expired, and the conversation still exists.
type InviteEvent struct {
	JoinerInboxID  string
	ConversationID string
	InviteTag      string
	Parsed         *invite.ParsedInvite

	group substrate.Conversation
	dm    substrate.Conversation
}

// Accept admits the joiner to the conversation the invite referred to.
func (e *InviteEvent) Accept(ctx context.Context) error {
	return e.group.AddMembers(ctx, []string{e.JoinerInboxID})
}

// Reject sends a structured join-error back to the joiner on the DM the
// request arrived on. errType defaults to joinerror.GenericFailure.
func (e *InviteEvent) Reject(ctx context.Context, errType ...joinerror.ErrorType) error {
	et := joinerror.GenericFailure
	if len(errType) > 0 {
		et = errType[0]
	}
	return sendJoinError(ctx, e.dm, et, e.InviteTag)
}

// Handler observes an authenticated join request. A returned error is
// caught by the engine, logged, and converted into a GenericFailure
// rejection sent back to the joiner; it never propagates out of
// HandleMessage.
type Handler func(ctx context.Context, event *InviteEvent) error

// HandlerID identifies a registered Handler for later removal via Off.
type HandlerID int

// Engine classifies join-request DMs for one creator identity. It is
// read-only after construction except for its handler list, which is
// safe to mutate concurrently with dispatch.
type Engine struct {
	selfInboxID    string
	selfPrivateKey []byte
	selfPublicKey  []byte
	agent          substrate.MessagingAgent

	mu       sync.Mutex
	nextID   HandlerID
	handlers []registeredHandler
}

type registeredHandler struct {
	id HandlerID
	fn Handler
}

// New builds an Engine bound to a creator identity and the substrate
// capability it drives side effects through.
func New(agent substrate.MessagingAgent, selfPrivateKey []byte) (*Engine, error) {
	pub, err := primitives.GetPublicKey(selfPrivateKey)
	if err != nil {
		return nil, err
	}
	return &Engine{
		selfInboxID:    agent.InboxID(),
		selfPrivateKey: selfPrivateKey,
		selfPublicKey:  pub,
		agent:          agent,
	}, nil
}

// On registers a handler to run, in registration order, whenever a DM
// classifies as an authenticated join request. Returns an id for Off.
func (e *Engine) On(h Handler) HandlerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, registeredHandler{id: id, fn: h})
	return id
}

// Off removes a previously registered handler. A no-op if id is unknown.
func (e *Engine) Off(id HandlerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, rh := range e.handlers {
		if rh.id == id {
			e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
			return
		}
	}
}

// HandleMessage is the single entry point: it classifies d and drives
// whichever of BlockSender/SendError/invite-dispatch the classification
// calls for. Crypto and format errors never escape; only a substrate
// failure encountered while checking conversation existence propagates to
// the caller. A failed member add inside a handler's Accept reaches the
// caller only through that handler's error, which the engine converts
// into a GenericFailure rejection.
func (e *Engine) HandleMessage(ctx context.Context, d Delivery) error {
	oc, info := e.classify(d)

	switch oc {
	case outcomeNotJoinRequest:
		metrics.MiddlewareDecisions.WithLabelValues("pass_through").Inc()
		return nil

	case outcomeBlockSender:
		metrics.MiddlewareDecisions.WithLabelValues("block_sender").Inc()
		e.blockSender(ctx, d.SenderInboxID)
		return nil

	case outcomeSendError:
		metrics.MiddlewareDecisions.WithLabelValues("send_error").Inc()
		if err := sendJoinError(ctx, d.Conversation, info.errType, info.tag); err != nil {
			logger.ErrorMsg("middleware: send join error failed", logger.Error(err))
		}
		return nil

	case outcomeProceed:
		group, exists, err := e.agent.Conversations().GetByID(ctx, info.conversationID)
		if err != nil {
			return logger.NewCodedError(logger.ErrCodeSubstrateUnavailable, "conversation lookup failed", err)
		}
		if !exists {
			metrics.MiddlewareDecisions.WithLabelValues("send_error").Inc()
			if err := sendJoinError(ctx, d.Conversation, joinerror.ConversationExpired, info.tag); err != nil {
				logger.ErrorMsg("middleware: send join error failed", logger.Error(err))
			}
			return nil
		}

		metrics.MiddlewareDecisions.WithLabelValues("invite").Inc()
		event := &InviteEvent{
			JoinerInboxID:  d.SenderInboxID,
			ConversationID: info.conversationID,
			InviteTag:      info.tag,
			Parsed:         info.parsed,
			group:          group,
			dm:             d.Conversation,
		}
		e.dispatch(ctx, event)
		return nil
	}

	return nil
}

// classifyInfo carries the data later steps need without re-deriving it.
type classifyInfo struct {
	tag            string
	conversationID string
	parsed         *invite.ParsedInvite
	errType        joinerror.ErrorType
}

// classify runs every check that needs no substrate I/O: text presence,
// self-sender, parse, creator binding, signature, expiry, and token
// decryption. Conversation existence needs a substrate lookup and is
// handled by HandleMessage.
func (e *Engine) classify(d Delivery) (outcome, classifyInfo) {
	if d.Content == nil {
		return outcomeNotJoinRequest, classifyInfo{}
	}
	text, ok := d.Content.ExtractText()
	if !ok {
		return outcomeNotJoinRequest, classifyInfo{}
	}

	if d.SenderInboxID == e.selfInboxID {
		return outcomeNotJoinRequest, classifyInfo{}
	}

	parsed, err := invite.Parse(text)
	if err != nil {
		trimmed := strings.TrimSpace(text)
		if len(trimmed) >= malformedInviteMinLength && malformedInviteRecognizer.MatchString(trimmed) {
			return outcomeBlockSender, classifyInfo{}
		}
		return outcomeNotJoinRequest, classifyInfo{}
	}

	if string(parsed.Payload.CreatorInboxID) != e.selfInboxID {
		return outcomeBlockSender, classifyInfo{}
	}

	if !invite.Verify(parsed.Signed, e.selfPublicKey) {
		return outcomeBlockSender, classifyInfo{}
	}

	if parsed.IsExpired || parsed.IsConversationExpired {
		return outcomeSendError, classifyInfo{tag: parsed.Payload.Tag, errType: joinerror.ConversationExpired}
	}

	conversationID, err := invite.DecryptConversationID(parsed, e.selfPrivateKey)
	if err != nil {
		return outcomeBlockSender, classifyInfo{}
	}

	return outcomeProceed, classifyInfo{
		tag:            parsed.Payload.Tag,
		conversationID: conversationID,
		parsed:         parsed,
	}
}

// dispatch runs every registered handler, in registration order, against
// event. One handler calling Accept does not stop the others from
// running. A handler error (or panic) is contained and converted into a
// GenericFailure rejection.
func (e *Engine) dispatch(ctx context.Context, event *InviteEvent) {
	e.mu.Lock()
	snapshot := make([]registeredHandler, len(e.handlers))
	copy(snapshot, e.handlers)
	e.mu.Unlock()

	for _, rh := range snapshot {
		e.runHandler(ctx, rh.fn, event)
	}
}

func (e *Engine) runHandler(ctx context.Context, h Handler, event *InviteEvent) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = logger.NewCodedError(logger.ErrCodeHandler, "handler panicked", nil).WithDetails("recovered", r)
			}
		}()
		return h(ctx, event)
	}()

	if err != nil {
		logger.ErrorMsg("middleware: invite handler failed",
			logger.String("joiner_inbox_id", event.JoinerInboxID),
			logger.String("conversation_id", event.ConversationID),
			logger.Error(err),
		)
		if sendErr := event.Reject(ctx, joinerror.GenericFailure); sendErr != nil {
			logger.ErrorMsg("middleware: failed to notify joiner of handler error", logger.Error(sendErr))
		}
	}
}

// blockSender refreshes the consent list then blocks senderInboxID.
// Both steps are fire-and-forget: failures are logged, never returned.
func (e *Engine) blockSender(ctx context.Context, senderInboxID string) {
	contacts := e.agent.Contacts()
	if err := contacts.RefreshConsentList(ctx); err != nil {
		logger.ErrorMsg("middleware: consent refresh failed", logger.Error(err))
	}
	if err := contacts.Block(ctx, []string{senderInboxID}); err != nil {
		logger.ErrorMsg("middleware: block sender failed", logger.Error(err))
	}
}

// sendJoinError encodes and delivers a structured join-error content on
// conv.
func sendJoinError(ctx context.Context, conv substrate.Conversation, errType joinerror.ErrorType, tag string) error {
	content := joinerror.New(errType, tag, time.Now())
	encoded, err := joinerror.Encode(content)
	if err != nil {
		return err
	}
	return conv.Send(ctx, encoded)
}
