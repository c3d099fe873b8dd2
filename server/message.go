// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"reflect"
	"strings"
)

type (
	// inbound is a request from a client, handled on the hub goroutine.
	inbound interface {
		Inbound(hub *Hub, client Client)
	}

	// outbound is a reply to a client.
	outbound interface {
		// Pool returns the contents of outbound to their sync.Pool
		Pool()
	}

	// Message is the envelope of every frame: {"data": {...}, "type": "..."}.
	// Marshaling and unmarshaling go through jsoniter (see jsoniter.go).
	Message struct {
		Data interface{}
	}

	messageJSON struct {
		Data interface{} `json:"data"`
		Type messageType `json:"type"`
	}

	// messageType is the Go type name with a lowercase first letter.
	messageType string

	SignedInbound struct {
		Client Client
		inbound
	}
)

var (
	inboundTypes  = make(map[messageType]reflect.Type)
	outboundTypes = make(map[reflect.Type]messageType)
)

func messageTypeOf(v interface{}) (reflect.Type, messageType) {
	typ := reflect.TypeOf(v)
	name := reflect.Indirect(reflect.ValueOf(v)).Type().Name()
	return typ, messageType(strings.ToLower(name[:1]) + name[1:])
}

// Call from init functions only.
func registerInbound(ins ...inbound) {
	for _, in := range ins {
		typ, m := messageTypeOf(in)
		if _, ok := inboundTypes[m]; ok {
			panic("duplicate inbound message type " + string(m))
		}
		inboundTypes[m] = typ
	}
}

// Call from init functions only.
func registerOutbound(outs ...outbound) {
	for _, out := range outs {
		typ, m := messageTypeOf(out)
		outboundTypes[typ] = m
	}
}

// newInbound returns a pointer to a zero inbound of type m,
// or to an InvalidInbound if m isn't registered.
func newInbound(m messageType) interface{} {
	typ, ok := inboundTypes[m]
	if !ok {
		return &InvalidInbound{messageType: m}
	}
	return reflect.New(typ).Interface()
}

func (message Message) messageJSON() messageJSON {
	m, ok := outboundTypes[reflect.TypeOf(message.Data)]
	if !ok {
		// Outbounds are created by the server, so this is a bug
		panic("unregistered outbound message type " + reflect.TypeOf(message.Data).String())
	}
	return messageJSON{Data: message.Data, Type: m}
}

// MarshalJSON is replaced by encodeMessage when using json.
func (message Message) MarshalJSON() ([]byte, error) {
	panic("use jsoniter")
}

// UnmarshalJSON is replaced by decodeMessage when using json.
func (message *Message) UnmarshalJSON([]byte) error {
	panic("use jsoniter")
}
