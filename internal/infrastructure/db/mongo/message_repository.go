package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

const collectionMessages = "messages"

type MessageRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		col: db.Collection(collectionMessages),
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

type messageDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Sender    primitive.ObjectID `bson:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Create stores msg, stamping its ID and creation time.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	sender, err := parseRef("sender", msg.Sender)
	if err != nil {
		return nil, err
	}
	receiver, err := parseRef("receiver", msg.Receiver)
	if err != nil {
		return nil, err
	}

	doc := messageDocument{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Receiver:  receiver,
		Content:   msg.Content,
		CreatedAt: r.now(),
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return fromMessageDocument(&doc), nil
}

// Conversation returns messages exchanged between a and b, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, a, b string) ([]*domain.Message, error) {
	oa, err := parseRef("sender", a)
	if err != nil {
		return nil, err
	}
	ob, err := parseRef("receiver", b)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"sender": oa, "receiver": ob},
		bson.M{"sender": ob, "receiver": oa},
	}}
	return r.find(ctx, filter, 1)
}

// ForRecipient returns messages addressed to recipientID, newest first.
func (r *MessageRepository) ForRecipient(ctx context.Context, recipientID string) ([]*domain.Message, error) {
	oid, err := parseRef("recipientId", recipientID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"receiver": oid}, -1)
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M, order int) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}, {Key: "_id", Value: order}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]*domain.Message, 0, len(docs))
	for i := range docs {
		out = append(out, fromMessageDocument(&docs[i]))
	}
	return out, nil
}

// Partners returns distinct receivers userID wrote to followed by distinct
// senders that wrote to userID. The two lists may overlap.
func (r *MessageRepository) Partners(ctx context.Context, userID string) ([]string, error) {
	oid, err := parseRef("userId", userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sent, err := r.col.Distinct(ctx, "receiver", bson.M{"sender": oid})
	if err != nil {
		return nil, fmt.Errorf("distinct receivers: %w", err)
	}
	received, err := r.col.Distinct(ctx, "sender", bson.M{"receiver": oid})
	if err != nil {
		return nil, fmt.Errorf("distinct senders: %w", err)
	}

	out := make([]string, 0, len(sent)+len(received))
	for _, v := range append(sent, received...) {
		if id, ok := v.(primitive.ObjectID); ok {
			out = append(out, id.Hex())
		}
	}
	return out, nil
}

// EnsureIndexes creates the indexes backing conversation and inbox queries.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func fromMessageDocument(d *messageDocument) *domain.Message {
	return &domain.Message{
		ID:        d.ID.Hex(),
		Sender:    d.Sender.Hex(),
		Receiver:  d.Receiver.Hex(),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}
