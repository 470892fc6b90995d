package activitypub

import (
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

var commentPolicy = bluemonday.StrictPolicy()

// HandleInbox processes incoming ActivityPub activities. The username is
// the addressed local actor, or empty for the shared inbox where the
// target is taken from the activity itself.
//
// The order is fixed: decode, resolve the claimed actor, verify the
// signature against that actor's key, then dispatch. Nothing mutates
// state before the signature check passes.
func HandleInbox(w http.ResponseWriter, r *http.Request, username string, conf *util.AppConfig) {
	if r.Header.Get("Signature") == "" {
		log.Printf("Inbox: Missing HTTP signature")
		http.Error(w, "Missing signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Inbox: Failed to read body: %v", err)
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	decoded, err := DecodeActivity(body)
	if err != nil {
		log.Printf("Inbox: Rejected activity: %v", err)
		writeActivityError(w, err)
		return
	}

	if username != "" {
		if err, acc := db.GetDB().ReadAccByUsername(username); err != nil || acc == nil {
			log.Printf("Inbox: Unknown local actor %s", username)
			http.Error(w, "Unknown actor", http.StatusNotFound)
			return
		}
	}

	// Actors on our own domain are resolved from the database, a remote
	// claimant goes through the cache. A local URI must never produce a
	// shadow row in the remote account cache.
	claimedActor := actorOf(decoded)
	actor, err := ResolveActor(claimedActor, conf)
	if err != nil {
		log.Printf("Inbox: Failed to resolve actor %s: %v", claimedActor, err)
		writeActivityError(w, err)
		return
	}

	signerURI, err := VerifyRequest(r, body, actor.PublicKeyPem())
	if err != nil {
		log.Printf("Inbox: Signature verification failed: %v", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	// The key that signed the request must belong to the actor the
	// activity claims to be from.
	if err := VerifyDomainsMatch(signerURI, actor.URI(conf)); err != nil {
		log.Printf("Inbox: Signer %s does not match actor %s", signerURI, actor.URI(conf))
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	switch activity := decoded.(type) {
	case *FollowActivity:
		err = handleFollow(activity, actor, conf)
	case *UndoFollowActivity:
		err = handleUndoFollow(activity, actor, conf)
	case *AcceptActivity:
		err = handleAccept(activity, actor)
	case *LikeActivity:
		err = handleLike(activity, actor, conf)
	case *UndoLikeActivity:
		err = handleUndoLike(activity, actor, conf)
	case *CreateCommentActivity:
		err = handleCreateComment(activity, actor, conf)
	default:
		err = ErrUnsupportedActivity
	}

	if err != nil {
		log.Printf("Inbox: Failed to process activity: %v", err)
		writeActivityError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// writeActivityError maps the error taxonomy onto HTTP status codes.
func writeActivityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrValidationFailed):
		http.Error(w, "Invalid activity", http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// actorOf returns the claimed actor URI of a decoded activity.
func actorOf(decoded interface{}) string {
	switch activity := decoded.(type) {
	case *FollowActivity:
		return activity.Actor
	case *UndoFollowActivity:
		return activity.Actor
	case *AcceptActivity:
		return activity.Actor
	case *LikeActivity:
		return activity.Actor
	case *UndoLikeActivity:
		return activity.Actor
	case *CreateCommentActivity:
		return activity.Actor
	}
	return ""
}

// handleFollow records a follow edge and confirms it with an Accept. The
// edge is kept even when the Accept cannot be delivered, the remote side
// retries on its own schedule.
func handleFollow(follow *FollowActivity, actor *ResolvedActor, conf *util.AppConfig) error {
	localAccount, err := resolveLocalTarget(follow.Object, conf)
	if err != nil {
		return err
	}

	log.Printf("Inbox: Processing Follow from %s", actor.Handle())

	followRecord := &domain.Follow{
		Id:              uuid.New(),
		AccountId:       actor.AccountId(),
		TargetAccountId: localAccount.Id,
		URI:             follow.ID,
		Accepted:        true,
		CreatedAt:       time.Now(),
	}

	if err := db.GetDB().CreateFollow(followRecord); err != nil {
		return err
	}

	// A follower on this server needs no Accept delivered over the wire.
	if actor.Remote != nil {
		if err := SendAccept(localAccount, actor.Remote, follow.ID, conf); err != nil {
			log.Printf("Inbox: Failed to send Accept to %s: %v", actor.Handle(), err)
		}
	}

	log.Printf("Inbox: Accepted follow from %s", actor.Handle())
	return nil
}

// handleUndoFollow removes a follow edge; undoing a follow that was never
// recorded is a no-op.
func handleUndoFollow(undo *UndoFollowActivity, actor *ResolvedActor, conf *util.AppConfig) error {
	localAccount, err := resolveLocalTarget(undo.Object.Object, conf)
	if err != nil {
		return err
	}

	if err := db.GetDB().DeleteFollowByAccounts(actor.AccountId(), localAccount.Id); err != nil {
		return err
	}

	log.Printf("Inbox: Removed follow from %s", actor.Handle())
	return nil
}

// handleAccept marks an outbound follow as confirmed. The update is scoped
// to follows aimed at the verified sender, one actor cannot confirm a
// follow addressed to another.
func handleAccept(accept *AcceptActivity, actor *ResolvedActor) error {
	if err := db.GetDB().AcceptFollowByURI(accept.Object.ID, actor.AccountId()); err != nil {
		return err
	}

	log.Printf("Inbox: Follow %s was accepted by %s", accept.Object.ID, actor.Handle())
	return nil
}

// handleLike records a like on a local dive. Likes on foreign objects are
// rejected, never looked up over the network.
func handleLike(like *LikeActivity, actor *ResolvedActor, conf *util.AppConfig) error {
	dive, err := ResolveLocalDive(like.Object, conf)
	if err != nil {
		return err
	}

	likeRecord := &domain.Like{
		Id:        uuid.New(),
		AccountId: actor.AccountId(),
		DiveId:    dive.Id,
		URI:       like.ID,
		CreatedAt: time.Now(),
	}

	if err := db.GetDB().CreateLike(likeRecord); err != nil {
		return err
	}

	log.Printf("Inbox: %s liked dive #%d", actor.Handle(), dive.DiveNumber)
	return nil
}

// handleUndoLike removes a like; undoing a like that was never recorded is
// a no-op.
func handleUndoLike(undo *UndoLikeActivity, actor *ResolvedActor, conf *util.AppConfig) error {
	dive, err := ResolveLocalDive(undo.Object.Object, conf)
	if err != nil {
		return err
	}

	if err := db.GetDB().DeleteLike(actor.AccountId(), dive.Id); err != nil {
		return err
	}

	log.Printf("Inbox: %s unliked dive #%d", actor.Handle(), dive.DiveNumber)
	return nil
}

// handleCreateComment stores a federated reply to a dive. Redelivery of
// the same activity id converges on the first stored comment.
func handleCreateComment(create *CreateCommentActivity, actor *ResolvedActor, conf *util.AppConfig) error {
	if err, existing := db.GetDB().ReadCommentByApId(create.ID); err == nil && existing != nil {
		log.Printf("Inbox: Comment %s already exists, skipping", create.ID)
		return nil
	}

	dive, err := ResolveLocalDive(create.Object.InReplyTo, conf)
	if err != nil {
		return err
	}

	// Remote servers send HTML, we keep plain text.
	body := html.UnescapeString(commentPolicy.Sanitize(create.Object.Content))

	comment := &domain.DiveComment{
		Id:        uuid.New(),
		DiveId:    dive.Id,
		AccountId: actor.AccountId(),
		Body:      body,
		ApId:      create.ID,
		External:  true,
		CreatedAt: time.Now(),
	}

	if err := db.GetDB().CreateExternalComment(comment); err != nil {
		return err
	}

	log.Printf("Inbox: %s commented on dive #%d", actor.Handle(), dive.DiveNumber)
	return nil
}

// resolveLocalTarget resolves an object URI that must name an actor on
// this server. Foreign URIs fail without a network lookup.
func resolveLocalTarget(objectURI string, conf *util.AppConfig) (*domain.Account, error) {
	username, ok := parseLocalActorURI(objectURI, conf)
	if !ok {
		return nil, fmt.Errorf("object %s is not a local actor: %w", objectURI, ErrNotFound)
	}
	err, acc := db.GetDB().ReadAccByUsername(username)
	if err != nil || acc == nil {
		return nil, fmt.Errorf("local actor %s: %w", username, ErrNotFound)
	}
	return acc, nil
}
