package cluster

import (
	"fmt"
	"log"
	"os"
	"strings"

	consul "github.com/hashicorp/consul/api"
)

// Registration describes how this instance announces itself to Consul.
type Registration struct {
	ServiceName string
	ServicePort int
	// Host used by Consul to reach the health endpoint. Defaults to the
	// HOSTNAME variable, then os.Hostname.
	AdvertiseHost string
	// Comma separated list of agents, tried in order.
	ConsulAddrs string
}

// ServiceID is unique per instance: "<service>-<host>".
func (r Registration) ServiceID() string {
	return fmt.Sprintf("%s-%s", r.ServiceName, r.host())
}

func (r Registration) host() string {
	if r.AdvertiseHost != "" {
		return r.AdvertiseHost
	}
	if h := os.Getenv("HOSTNAME"); h != "" {
		return h
	}
	h, _ := os.Hostname()
	return h
}

func (r Registration) agentRegistration() *consul.AgentServiceRegistration {
	return &consul.AgentServiceRegistration{
		ID:   r.ServiceID(),
		Name: r.ServiceName,
		Port: r.ServicePort,
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", r.host(), r.ServicePort),
			Timeout:                        "5s",
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// NewConsulClient tries each address until an agent answers with a leader.
func NewConsulClient(addrs string) (*consul.Client, error) {
	for _, node := range strings.Split(addrs, ",") {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			log.Printf("[Cluster] Failed to create client for %s: %v", node, err)
			continue
		}
		if _, err := client.Status().Leader(); err != nil {
			log.Printf("[Cluster] %s did not answer the leader check: %v", node, err)
			continue
		}

		log.Printf("[Cluster] Connected to Consul agent %s.", node)
		return client, nil
	}
	return nil, fmt.Errorf("no Consul agent available in %q", addrs)
}

// RegisterService registers the instance and returns a func that removes it.
func RegisterService(r Registration) (deregister func(), err error) {
	client, err := NewConsulClient(r.ConsulAddrs)
	if err != nil {
		return nil, err
	}

	reg := r.agentRegistration()
	if err := client.Agent().ServiceRegister(reg); err != nil {
		return nil, fmt.Errorf("register service %s: %w", reg.ID, err)
	}
	log.Printf("[Cluster] Service '%s' registered in Consul with ID %s.", r.ServiceName, reg.ID)

	return func() {
		if err := client.Agent().ServiceDeregister(reg.ID); err != nil {
			log.Printf("[Cluster] WARN: Failed to deregister %s: %v", reg.ID, err)
			return
		}
		log.Printf("[Cluster] Service %s deregistered.", reg.ID)
	}, nil
}
