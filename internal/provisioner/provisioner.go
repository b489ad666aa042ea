// Package provisioner stands up and tears down containerized database
// instances matching named topology profiles, so verification runs have
// a live target without hand-managed fixtures.
package provisioner

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

const startPollInterval = 2 * time.Second

// Provisioner manages fixture containers through the Docker daemon.
type Provisioner struct {
	cli *client.Client
}

func New() (*Provisioner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Provisioner{cli: cli}, nil
}

// IsAvailable checks the Docker daemon is reachable.
func (p *Provisioner) IsAvailable(ctx context.Context) error {
	if _, err := p.cli.Ping(ctx); err != nil {
		return fmt.Errorf("Docker daemon not available: %w", err)
	}
	return nil
}

// Up brings up the container for profileID, reusing a stopped container
// from an earlier run when one exists. It returns once the container is
// running and the readiness window has passed.
func (p *Provisioner) Up(ctx context.Context, profileID string) error {
	profile, ok := LookupProfile(profileID)
	if !ok {
		return fmt.Errorf("unknown topology profile %q (known: %v)", profileID, ProfileIDs())
	}

	name := containerName(profile)

	exists, existingID, err := p.findContainer(ctx, name)
	if err != nil {
		return err
	}

	var containerID string
	if exists {
		running, err := p.isRunning(ctx, existingID)
		if err != nil {
			return err
		}
		if running {
			log.Printf("Fixture %s already running on port %s", profileID, profile.HostPort)
			return nil
		}

		log.Printf("Restarting existing fixture container: %s", existingID[:12])
		if err := p.cli.ContainerStart(ctx, existingID, types.ContainerStartOptions{}); err != nil {
			return fmt.Errorf("failed to restart container: %w", err)
		}
		containerID = existingID
	} else {
		log.Printf("Pulling image %s...", profile.Image)
		out, err := p.cli.ImagePull(ctx, profile.Image, types.ImagePullOptions{})
		if err != nil {
			return fmt.Errorf("failed to pull image %s: %w", profile.Image, err)
		}
		io.Copy(os.Stdout, out)
		out.Close()

		containerConfig := &container.Config{
			Image:        profile.Image,
			Cmd:          profile.Cmd,
			Env:          profile.Env,
			ExposedPorts: nat.PortSet{profile.ContainerPort: struct{}{}},
		}
		hostConfig := &container.HostConfig{
			PortBindings: nat.PortMap{
				profile.ContainerPort: []nat.PortBinding{
					{HostIP: "0.0.0.0", HostPort: profile.HostPort},
				},
			},
		}

		resp, err := p.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, name)
		if err != nil {
			return fmt.Errorf("failed to create container: %w", err)
		}
		containerID = resp.ID
		log.Printf("Container created: %s", containerID[:12])

		if err := p.cli.ContainerStart(ctx, containerID, types.ContainerStartOptions{}); err != nil {
			p.cli.ContainerRemove(ctx, containerID, types.ContainerRemoveOptions{Force: true})
			return fmt.Errorf("failed to start container: %w", err)
		}
	}

	if err := p.waitRunning(ctx, containerID, 30*time.Second); err != nil {
		return err
	}

	log.Printf("Fixture %s up on port %s", profileID, profile.HostPort)
	return nil
}

// Down stops and removes the container for profileID. Missing containers
// are not an error.
func (p *Provisioner) Down(ctx context.Context, profileID string) error {
	profile, ok := LookupProfile(profileID)
	if !ok {
		return fmt.Errorf("unknown topology profile %q", profileID)
	}

	exists, containerID, err := p.findContainer(ctx, containerName(profile))
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	stopTimeout := 10 // seconds
	if err := p.cli.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &stopTimeout}); err != nil {
		log.Printf("Warning: failed to stop container: %v", err)
	}

	if err := p.cli.ContainerRemove(ctx, containerID, types.ContainerRemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}

	log.Printf("Fixture %s torn down", profileID)
	return nil
}

func (p *Provisioner) Close() error {
	if p.cli != nil {
		return p.cli.Close()
	}
	return nil
}

func (p *Provisioner) findContainer(ctx context.Context, name string) (bool, string, error) {
	containers, err := p.cli.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return false, "", fmt.Errorf("failed to list containers: %w", err)
	}

	for _, c := range containers {
		for _, n := range c.Names {
			// Docker prefixes names with "/"
			if n == "/"+name || n == name {
				return true, c.ID, nil
			}
		}
	}

	return false, "", nil
}

func (p *Provisioner) isRunning(ctx context.Context, containerID string) (bool, error) {
	inspect, err := p.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		return false, fmt.Errorf("failed to inspect container: %w", err)
	}
	return inspect.State.Running, nil
}

func (p *Provisioner) waitRunning(ctx context.Context, containerID string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		running, err := p.isRunning(ctx, containerID)
		if err != nil {
			return err
		}
		if running {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(startPollInterval):
		}
	}

	return fmt.Errorf("container did not reach running state within %v", timeout)
}

func containerName(profile Profile) string {
	return fmt.Sprintf("connectivity-fixture-%s", profile.ID)
}
