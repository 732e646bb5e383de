package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	firebase "firebase.google.com/go"
	"github.com/isdelr/event-registry/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const likesField = "likes"

// FirestoreStore maps the events collection onto a Firestore collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreClient connects to Firestore for projectID. With no credentials
// the client uses application default credentials; otherwise it is built
// through a Firebase app from the given service account JSON.
func NewFirestoreClient(ctx context.Context, projectID, credentialsJSON string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	if credentialsJSON == "" {
		client, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("could not start firestore client: %w", err)
		}
		return client, nil
	}

	var conf *firebase.Config
	if projectID != firestore.DetectProjectID {
		conf = &firebase.Config{ProjectID: projectID}
	}
	sa := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, conf, sa)
	if err != nil {
		return nil, fmt.Errorf("could not create firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not start firestore client: %w", err)
	}
	return client, nil
}

// NewFirestoreStore wraps an existing client. The store owns the client and
// closes it on Close.
func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

// List reads every document and attaches its Firestore id.
func (s *FirestoreStore) List(ctx context.Context) ([]models.Event, error) {
	iter := s.col().Documents(ctx)
	defer iter.Stop()

	var events []models.Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document iterator error: %w", err)
		}
		var ev models.Event
		if err := doc.DataTo(&ev); err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", doc.Ref.ID, err)
		}
		ev.ID = doc.Ref.ID
		events = append(events, ev)
	}
	return events, nil
}

// Add creates the document; the collection is created on first write.
func (s *FirestoreStore) Add(ctx context.Context, event models.Event) (string, error) {
	ref, _, err := s.col().Add(ctx, event)
	if err != nil {
		return "", fmt.Errorf("could not add event: %w", err)
	}
	return ref.ID, nil
}

// AdjustLikes runs the read and the write inside one transaction so
// concurrent likes on the same document are retried instead of lost.
func (s *FirestoreStore) AdjustLikes(ctx context.Context, id string, delta int64) (int64, error) {
	ref := s.col().Doc(id)
	if ref == nil {
		return 0, fmt.Errorf("event %q: %w", id, ErrNotFound)
	}

	var likes int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		likes = clampLikes(likesOf(snap), delta)
		return tx.Update(ref, []firestore.Update{{Path: likesField, Value: likes}})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("could not update likes: %w", err)
	}
	return likes, nil
}

// Count uses a server-side aggregation so no documents are transferred.
func (s *FirestoreStore) Count(ctx context.Context) (int64, error) {
	res, err := s.col().NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not count events: %w", err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result %T", res["all"])
	}
	return v.GetIntegerValue(), nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// likesOf reads the counter leniently: absent or non-numeric values are 0.
func likesOf(snap *firestore.DocumentSnapshot) int64 {
	v, err := snap.DataAt(likesField)
	if err != nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}
