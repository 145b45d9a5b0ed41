package deploy

import (
	"fmt"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"

	"github.com/matgreaves/couchrig/topology"
)

// Container labels identifying the deployment and resource.
const (
	LabelDeployment  = "couchrig.deployment"
	LabelApplication = "couchrig.application"
	LabelResource    = "couchrig.resource"
)

// ContainerSpec is what a container runtime needs to create one resource.
type ContainerSpec struct {
	Name       string                `json:"name"`
	Resource   string                `json:"resource"`
	Config     *container.Config     `json:"config"`
	HostConfig *container.HostConfig `json:"host_config"`
}

// ContainerName returns the container name for a resource of a deployment.
func ContainerName(deploymentID, resourceName string) string {
	return fmt.Sprintf("couchrig-%s-%s", deploymentID, resourceName)
}

// Containers returns the container specs of every resource, including
// resources excluded from the manifest, in declaration order.
func (d *Deployment) Containers() ([]ContainerSpec, error) {
	var out []ContainerSpec
	for _, r := range d.app.Resources() {
		cr, ok := r.(containerResource)
		if !ok {
			continue
		}
		spec, err := d.containerSpec(cr)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}

func (d *Deployment) containerSpec(r containerResource) (ContainerSpec, error) {
	img, ok := r.Image()
	if !ok {
		return ContainerSpec{}, fmt.Errorf("resource %q: no image", r.Name())
	}

	portBindings, exposedPorts, err := d.buildPortBindings(r)
	if err != nil {
		return ContainerSpec{}, err
	}

	return ContainerSpec{
		Name:     ContainerName(d.ID, r.Name()),
		Resource: r.Name(),
		Config: &container.Config{
			Image:        img.Reference(),
			ExposedPorts: exposedPorts,
			Labels: map[string]string{
				LabelDeployment:  d.ID,
				LabelApplication: d.app.Name(),
				LabelResource:    r.Name(),
			},
		},
		HostConfig: &container.HostConfig{
			PortBindings: portBindings,
			Mounts:       buildMounts(r.Mounts()),
		},
	}, nil
}

// buildPortBindings maps each endpoint's target port to its assigned host
// port.
func (d *Deployment) buildPortBindings(r containerResource) (nat.PortMap, nat.PortSet, error) {
	portBindings := make(nat.PortMap)
	exposedPorts := make(nat.PortSet)

	for _, ep := range r.Endpoints() {
		assigned, ok := d.endpoints[r.Name()+"/"+ep.Name]
		if !ok {
			return nil, nil, fmt.Errorf("resource %q: endpoint %q has no host port", r.Name(), ep.Name)
		}
		containerPort, err := nat.NewPort("tcp", strconv.Itoa(ep.TargetPort))
		if err != nil {
			return nil, nil, fmt.Errorf("resource %q: endpoint %q: %w", r.Name(), ep.Name, err)
		}
		exposedPorts[containerPort] = struct{}{}
		portBindings[containerPort] = []nat.PortBinding{{
			HostIP:   d.host,
			HostPort: strconv.Itoa(assigned.Port()),
		}}
	}
	return portBindings, exposedPorts, nil
}

func buildMounts(mounts []topology.Mount) []mount.Mount {
	if len(mounts) == 0 {
		return nil
	}
	out := make([]mount.Mount, 0, len(mounts))
	for _, m := range mounts {
		t := mount.TypeBind
		if m.Type == topology.MountVolume {
			t = mount.TypeVolume
		}
		out = append(out, mount.Mount{
			Type:     t,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}
	return out
}
