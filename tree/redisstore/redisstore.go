/*
Package redisstore provides a store of trained classifiers backed by a redis
DB. Every classifier is kept encoded under the key prefix:name.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/grovekit/grove"
	redis "gopkg.in/redis.v5"
)

// NameLength is the length of the names Create generates
const NameLength = 20

/*
ModelEncodeDecoder is an interface for objects
that allow encoding classifiers into slices of
bytes and decoding them back to classifiers.
grove.ModelCodec is one.
*/
type ModelEncodeDecoder interface {

	//Encode receives a grove.Classifier
	// and returns a slice of bytes with the classifier
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(grove.Classifier) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a grove.Classifier decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (grove.Classifier, error)
}

/*
Store keeps classifiers on redis.
*/
type Store struct {
	rc      *redis.Client
	prefix  string
	mencdec ModelEncodeDecoder
}

//New builds a Store backed by a redis DB
func New(rc *redis.Client, prefix string, mencdec ModelEncodeDecoder) *Store {
	return &Store{rc, prefix, mencdec}
}

/*
Create takes a context and a classifier and stores the classifier under a
newly generated name that no other classifier uses. It returns the name or
an error.
*/
func (rs *Store) Create(ctx context.Context, c grove.Classifier) (string, error) {
	data, err := rs.mencdec.Encode(c)
	if err != nil {
		return "", fmt.Errorf("creating model: encoding model: %v", err)
	}
	for {
		name := names.name(NameLength)
		ok, err := rs.rc.SetNX(rs.keyFor(name), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("creating model in redis: %v", err)
		}
		if ok {
			return name, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
}

/*
Get takes a context and a name and returns the classifier stored under the
name, nil if there is none, or an error.
*/
func (rs *Store) Get(ctx context.Context, name string) (grove.Classifier, error) {
	data, err := rs.rc.Get(rs.keyFor(name)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving model %q: %v", name, err)
	}
	c, err := rs.mencdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving model %q: decoding: %v", name, err)
	}
	return c, nil
}

/*
Store takes a context, a name and a classifier and stores the classifier
under the name, replacing any other stored under it.
*/
func (rs *Store) Store(ctx context.Context, name string, c grove.Classifier) error {
	redisID := rs.keyFor(name)
	data, err := rs.mencdec.Encode(c)
	if err != nil {
		return fmt.Errorf("storing model %q: encoding model: %v", redisID, err)
	}
	_, err = rs.rc.Set(redisID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing model %q in redis: %v", redisID, err)
	}
	return nil
}

// Delete removes the classifier stored under the given name
func (rs *Store) Delete(ctx context.Context, name string) error {
	redisID := rs.keyFor(name)
	_, err := rs.rc.Del(redisID).Result()
	if err != nil {
		return fmt.Errorf("deleting model %q from redis: %v", redisID, err)
	}
	return nil
}

func (rs *Store) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
