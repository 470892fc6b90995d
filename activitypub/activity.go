package activitypub

import (
	"encoding/json"
	"fmt"
)

// Activity is the outer envelope of any incoming ActivityPub activity.
// The object is kept raw until the type is known.
type Activity struct {
	Context interface{}     `json:"@context"`
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Actor   string          `json:"actor"`
	Object  json.RawMessage `json:"object"`
}

// FollowActivity represents an ActivityPub Follow activity
type FollowActivity struct {
	ID     string `json:"id"`
	Actor  string `json:"actor"`
	Object string `json:"object"` // URI of the person being followed
}

// UndoFollowActivity represents an Undo of a previous Follow
type UndoFollowActivity struct {
	ID     string         `json:"id"`
	Actor  string         `json:"actor"`
	Object FollowActivity `json:"object"`
}

// AcceptActivity represents an Accept confirming an outbound Follow
type AcceptActivity struct {
	ID     string         `json:"id"`
	Actor  string         `json:"actor"`
	Object FollowActivity `json:"object"`
}

// LikeActivity represents a Like on a dive
type LikeActivity struct {
	ID     string `json:"id"`
	Actor  string `json:"actor"`
	Object string `json:"object"` // URI of the dive being liked
}

// UndoLikeActivity represents an Undo of a previous Like
type UndoLikeActivity struct {
	ID     string       `json:"id"`
	Actor  string       `json:"actor"`
	Object LikeActivity `json:"object"`
}

// CommentNote is the Note object carried by a Create, a reply to a dive.
type CommentNote struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	InReplyTo    string `json:"inReplyTo"`
	AttributedTo string `json:"attributedTo"`
	Content      string `json:"content"`
	Published    string `json:"published"`
}

// CreateCommentActivity represents a Create whose object replies to a dive
type CreateCommentActivity struct {
	ID     string      `json:"id"`
	Actor  string      `json:"actor"`
	Object CommentNote `json:"object"`
}

// DecodeActivity parses a raw payload into exactly one of the supported
// activity shapes. Anything outside that set is rejected with
// ErrUnsupportedActivity rather than dropped, so misconfigured peers get a
// clear failure.
func DecodeActivity(body []byte) (interface{}, error) {
	var envelope Activity
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse activity: %w", ErrValidationFailed)
	}

	if envelope.ID == "" || envelope.Type == "" || envelope.Actor == "" {
		return nil, fmt.Errorf("activity missing id, type or actor: %w", ErrValidationFailed)
	}

	switch envelope.Type {
	case "Follow":
		var follow FollowActivity
		if err := json.Unmarshal(body, &follow); err != nil {
			return nil, fmt.Errorf("failed to parse Follow: %w", ErrValidationFailed)
		}
		if follow.Object == "" {
			return nil, fmt.Errorf("follow missing object: %w", ErrValidationFailed)
		}
		return &follow, nil

	case "Undo":
		return decodeUndo(body, &envelope)

	case "Accept":
		if typ := embeddedObjectType(envelope.Object); typ != "" && typ != "Follow" {
			return nil, fmt.Errorf("accept of %q object: %w", typ, ErrUnsupportedActivity)
		}
		var accept AcceptActivity
		if err := json.Unmarshal(body, &accept); err != nil {
			return nil, fmt.Errorf("failed to parse Accept: %w", ErrValidationFailed)
		}
		if accept.Object.ID == "" {
			return nil, fmt.Errorf("accept missing follow id: %w", ErrValidationFailed)
		}
		return &accept, nil

	case "Like":
		var like LikeActivity
		if err := json.Unmarshal(body, &like); err != nil {
			return nil, fmt.Errorf("failed to parse Like: %w", ErrValidationFailed)
		}
		if like.Object == "" {
			return nil, fmt.Errorf("like missing object: %w", ErrValidationFailed)
		}
		return &like, nil

	case "Create":
		var create CreateCommentActivity
		if err := json.Unmarshal(body, &create); err != nil {
			return nil, fmt.Errorf("failed to parse Create: %w", ErrValidationFailed)
		}
		if create.Object.Type != "Note" {
			return nil, fmt.Errorf("create of %q object: %w", create.Object.Type, ErrUnsupportedActivity)
		}
		if create.Object.InReplyTo == "" {
			return nil, fmt.Errorf("create without inReplyTo: %w", ErrUnsupportedActivity)
		}
		return &create, nil

	default:
		return nil, fmt.Errorf("activity type %q: %w", envelope.Type, ErrUnsupportedActivity)
	}
}

// embeddedObjectType peeks at the type of an embedded activity object.
func embeddedObjectType(raw json.RawMessage) string {
	var objectType struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &objectType); err != nil {
		return ""
	}
	return objectType.Type
}

// decodeUndo discriminates an Undo on the type of its embedded object.
func decodeUndo(body []byte, envelope *Activity) (interface{}, error) {
	var objectType struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(envelope.Object, &objectType); err != nil {
		return nil, fmt.Errorf("failed to parse Undo object: %w", ErrValidationFailed)
	}

	switch objectType.Type {
	case "Follow":
		var undo UndoFollowActivity
		if err := json.Unmarshal(body, &undo); err != nil {
			return nil, fmt.Errorf("failed to parse Undo Follow: %w", ErrValidationFailed)
		}
		return &undo, nil
	case "Like":
		var undo UndoLikeActivity
		if err := json.Unmarshal(body, &undo); err != nil {
			return nil, fmt.Errorf("failed to parse Undo Like: %w", ErrValidationFailed)
		}
		return &undo, nil
	default:
		return nil, fmt.Errorf("undo of %q object: %w", objectType.Type, ErrUnsupportedActivity)
	}
}
