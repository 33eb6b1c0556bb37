package cluster

import (
	"context"

	"github.com/gosimple/slug"
	"github.com/skroutz/ganetimgr/pkg/model"
)

// NewService returns the cluster registry. It supplies the fan-out target
// list to the aggregator and is immutable during an aggregation pass.
func NewService(clusterRepository *repository) Service {
	return Service{clusterRepository}
}

type Service struct {
	clusterRepository *repository
}

func (s Service) FindBySlug(ctx context.Context, clusterSlug string) (model.Cluster, error) {
	return s.clusterRepository.findBySlug(ctx, clusterSlug)
}

func (s Service) FindAll(ctx context.Context) ([]model.Cluster, error) {
	return s.clusterRepository.findAll(ctx)
}

func (s Service) Save(ctx context.Context, hostname, description string, port int, username, password string, fastCreate bool) (model.Cluster, error) {
	cluster := model.Cluster{
		Slug:        slug.Make(hostname),
		Hostname:    hostname,
		Description: description,
		Port:        port,
		Username:    username,
		Password:    password,
		FastCreate:  fastCreate,
	}

	err := s.clusterRepository.save(ctx, &cluster)
	if err != nil {
		return model.Cluster{}, err
	}

	return cluster, nil
}

func (s Service) Update(ctx context.Context, clusterSlug, description string, port int, username, password string, fastCreate bool) (model.Cluster, error) {
	cluster, err := s.clusterRepository.findBySlug(ctx, clusterSlug)
	if err != nil {
		return model.Cluster{}, err
	}

	// Update fields only if provided
	if description != "" {
		cluster.Description = description
	}
	if port != 0 {
		cluster.Port = port
	}
	if username != "" {
		cluster.Username = username
	}
	if password != "" {
		cluster.Password = password
	}
	cluster.FastCreate = fastCreate

	err = s.clusterRepository.save(ctx, &cluster)
	if err != nil {
		return model.Cluster{}, err
	}

	return cluster, nil
}

func (s Service) Delete(ctx context.Context, clusterSlug string) error {
	cluster, err := s.clusterRepository.findBySlug(ctx, clusterSlug)
	if err != nil {
		return err
	}

	return s.clusterRepository.delete(ctx, cluster)
}
