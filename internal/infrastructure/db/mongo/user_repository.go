package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName   string               `bson:"firstName"`
	LastName    string               `bson:"lastName"`
	Email       string               `bson:"email"`
	Password    string               `bson:"password"`
	ProfilePic  string               `bson:"profilePic,omitempty"`
	Skills      []string             `bson:"skills"`
	Posts       []postDocument       `bson:"posts"`
	Connections []primitive.ObjectID `bson:"connections"`
	Ratings     []ratingDocument     `bson:"ratings"`
}

type postDocument struct {
	ID             primitive.ObjectID     `bson:"_id"`
	Availabilities []availabilityDocument `bson:"availabilities"`
	Learn          []string               `bson:"learn"`
	Teach          []string               `bson:"teach"`
	Description    string                 `bson:"description"`
	CreatedAt      time.Time              `bson:"created_at"`
	Banner         string                 `bson:"banner,omitempty"`
	UserID         primitive.ObjectID     `bson:"userId"`
}

type availabilityDocument struct {
	Day      string `bson:"day"`
	FromTime string `bson:"fromTime"`
	ToTime   string `bson:"toTime"`
}

type ratingDocument struct {
	Rater primitive.ObjectID `bson:"rater"`
	Value int                `bson:"value"`
}

// Create inserts a new user document. A duplicate email yields ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toUserDocument(u)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return fromUserDocument(doc), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromUserDocument(&doc), nil
}

// FindByIDs returns the users whose IDs appear in ids. Malformed or unknown
// IDs are skipped and no particular order is guaranteed.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// FindAll returns every user in the collection's natural order.
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, fromUserDocument(&docs[i]))
	}
	return out, nil
}

// Save replaces the stored user with u. Posts without an ID are assigned one
// and the assigned IDs are written back into u.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	oid, err := parseID(u.ID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	for i := range u.Posts {
		if u.Posts[i].ID == "" {
			u.Posts[i].ID = primitive.NewObjectID().Hex()
		}
	}

	doc, err := toUserDocument(u)
	if err != nil {
		return err
	}
	doc.ID = oid

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("replace user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func toUserDocument(u *domain.User) (*userDocument, error) {
	connections, err := parseRefs("connection", u.Connections)
	if err != nil {
		return nil, err
	}

	ratings := make([]ratingDocument, 0, len(u.Ratings))
	for _, rt := range u.Ratings {
		rater, err := parseRef("rater", rt.Rater)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, ratingDocument{Rater: rater, Value: rt.Value})
	}

	posts := make([]postDocument, 0, len(u.Posts))
	for _, p := range u.Posts {
		pd, err := toPostDocument(p)
		if err != nil {
			return nil, err
		}
		posts = append(posts, pd)
	}

	return &userDocument{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Password:    u.PasswordHash,
		ProfilePic:  u.ProfilePic,
		Skills:      nonNilStrings(u.Skills),
		Posts:       posts,
		Connections: connections,
		Ratings:     ratings,
	}, nil
}

func toPostDocument(p domain.Post) (postDocument, error) {
	var (
		pd  postDocument
		err error
	)
	if p.ID != "" {
		if pd.ID, err = parseRef("post", p.ID); err != nil {
			return pd, err
		}
	} else {
		pd.ID = primitive.NewObjectID()
	}
	if pd.UserID, err = parseRef("userId", p.UserID); err != nil {
		return pd, err
	}

	pd.Availabilities = make([]availabilityDocument, 0, len(p.Availabilities))
	for _, a := range p.Availabilities {
		pd.Availabilities = append(pd.Availabilities, availabilityDocument(a))
	}
	pd.Learn = nonNilStrings(p.Learn)
	pd.Teach = nonNilStrings(p.Teach)
	pd.Description = p.Description
	pd.CreatedAt = p.CreatedAt
	pd.Banner = p.Banner
	return pd, nil
}

func fromUserDocument(d *userDocument) *domain.User {
	u := &domain.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		ProfilePic:   d.ProfilePic,
		Skills:       nonNilStrings(d.Skills),
		Posts:        make([]domain.Post, 0, len(d.Posts)),
		Connections:  hexIDs(d.Connections),
		Ratings:      make([]domain.Rating, 0, len(d.Ratings)),
	}
	for _, pd := range d.Posts {
		p := domain.Post{
			ID:             pd.ID.Hex(),
			Availabilities: make([]domain.Availability, 0, len(pd.Availabilities)),
			Learn:          nonNilStrings(pd.Learn),
			Teach:          nonNilStrings(pd.Teach),
			Description:    pd.Description,
			CreatedAt:      pd.CreatedAt,
			Banner:         pd.Banner,
			UserID:         pd.UserID.Hex(),
		}
		for _, a := range pd.Availabilities {
			p.Availabilities = append(p.Availabilities, domain.Availability(a))
		}
		u.Posts = append(u.Posts, p)
	}
	for _, rd := range d.Ratings {
		u.Ratings = append(u.Ratings, domain.Rating{Rater: rd.Rater.Hex(), Value: rd.Value})
	}
	return u
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
