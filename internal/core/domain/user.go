package domain

// User is the aggregate root of the platform. Posts and ratings are embedded
// and live and die with their owner; connections are references to other
// users and are one-directional.
type User struct {
	ID           string   `json:"_id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	ProfilePic   string   `json:"profilePic,omitempty"`
	Skills       []string `json:"skills"`
	Posts        []Post   `json:"posts"`
	Connections  []string `json:"connections"`
	Ratings      []Rating `json:"ratings"`
}

// HasConnection reports whether targetID is in the user's connection list.
func (u *User) HasConnection(targetID string) bool {
	for _, id := range u.Connections {
		if id == targetID {
			return true
		}
	}
	return false
}

// Connect appends targetID to the connection list unless it is already
// present. It reports whether the list changed. No reciprocal edge is added.
func (u *User) Connect(targetID string) bool {
	if u.HasConnection(targetID) {
		return false
	}
	u.Connections = append(u.Connections, targetID)
	return true
}

// Disconnect removes every occurrence of targetID and returns how many
// entries were dropped.
func (u *User) Disconnect(targetID string) int {
	kept := make([]string, 0, len(u.Connections))
	for _, id := range u.Connections {
		if id != targetID {
			kept = append(kept, id)
		}
	}
	removed := len(u.Connections) - len(kept)
	u.Connections = kept
	return removed
}

// Rate records value from raterID. An existing entry for the same rater is
// overwritten in place; otherwise a new entry is appended. It reports whether
// an existing rating was replaced.
func (u *User) Rate(raterID string, value int) bool {
	for i := range u.Ratings {
		if u.Ratings[i].Rater == raterID {
			u.Ratings[i].Value = value
			return true
		}
	}
	u.Ratings = append(u.Ratings, Rating{Rater: raterID, Value: value})
	return false
}

// AverageRating is the mean of the user's current ratings, 0 when unrated.
func (u *User) AverageRating() float64 {
	return AverageRating(u.Ratings)
}

// AddPost appends p to the embedded post list, stamping the owner.
func (u *User) AddPost(p Post) {
	p.UserID = u.ID
	u.Posts = append(u.Posts, p)
}

// LastPost returns the most recently appended post.
func (u *User) LastPost() (Post, bool) {
	if len(u.Posts) == 0 {
		return Post{}, false
	}
	return u.Posts[len(u.Posts)-1], true
}

// Feed flattens the user's posts into feed records carrying the author's
// denormalized fields. Posts keep their stored order.
func (u *User) Feed() []FeedPost {
	avg := u.AverageRating()
	out := make([]FeedPost, 0, len(u.Posts))
	for _, p := range u.Posts {
		out = append(out, FeedPost{
			Post:          p,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			UserEmail:     u.Email,
			ProfilePic:    u.ProfilePic,
			AverageRating: avg,
		})
	}
	return out
}
