package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/grovekit/grove"
	"github.com/grovekit/grove/tree/redisstore"
	redis "gopkg.in/redis.v5"
)

const (
	modelFlagUsage = "path to a JSON file or a redis://[:password@]host:port/name URL"
	redisPrefix    = "grove:models"
)

/*
redisLocation takes a model location and returns a redis store and the
name of the model in it when the location is a redis URL.
*/
func redisLocation(location string, codec grove.ModelCodec) (*redisstore.Store, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("parsing redis URL %s: %v", location, err)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.User != nil {
		opts.Password, _ = u.User.Password()
	}
	name := strings.TrimPrefix(u.Path, "/")
	return redisstore.New(redis.NewClient(opts), redisPrefix, codec), name, nil
}

func (rcc *rootCmdConfig) loadModel(location string, opts ...grove.Option) (grove.Classifier, error) {
	if location == "" {
		return nil, fmt.Errorf("required model flag was not set")
	}
	codec := grove.ModelCodec{Options: opts}
	if strings.HasPrefix(location, "redis://") {
		store, name, err := redisLocation(location, codec)
		if err != nil {
			return nil, err
		}
		rcc.Logf("Retrieving model %s from redis...", name)
		c, err := store.Get(rcc.Context(), name)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("no model %s found in redis", name)
		}
		return c, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("reading model in JSON from %s: %v", location, err)
	}
	defer f.Close()
	c, err := grove.ReadModel(f, opts...)
	if err != nil {
		err = fmt.Errorf("parsing model in JSON from %s: %v", location, err)
	}
	return c, err
}

/*
saveModel stores the classifier at the location: STDOUT when it is "", a
redis store when it is a redis URL (a name is generated for URLs without
one) or a file otherwise.
*/
func (rcc *rootCmdConfig) saveModel(location string, c grove.Classifier) error {
	if strings.HasPrefix(location, "redis://") {
		store, name, err := redisLocation(location, grove.ModelCodec{})
		if err != nil {
			return err
		}
		if name == "" {
			name, err = store.Create(rcc.Context(), c)
			if err != nil {
				return err
			}
			fmt.Printf("model stored as %s\n", name)
			return nil
		}
		rcc.Logf("Storing model %s in redis...", name)
		return store.Store(rcc.Context(), name, c)
	}
	f := os.Stdout
	if location != "" {
		var err error
		f, err = os.Create(location)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return grove.WriteModel(f, c)
}
