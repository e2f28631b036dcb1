package shm

import (
	"fmt"

	"github.com/Cornflakes-code/OpenKneeboard/gpu"
	"github.com/Cornflakes-code/OpenKneeboard/version"
)

// textureRing owns the producer-side textures for a single layer: a
// fixed-size rotating set, shared by name so consumers can open them
// without any explicit handle transfer (spec §4.4).
type textureRing struct {
	device  gpu.Device
	tuple   version.Tuple
	session uint64
	layer   uint8
	slots   [TextureCount]gpu.Texture
	shared  [TextureCount]bool
}

func newTextureRing(device gpu.Device, tuple version.Tuple, session uint64, layer uint8) *textureRing {
	return &textureRing{device: device, tuple: tuple, session: session, layer: layer}
}

// texture lazily creates and publishes the texture for slot, the first
// time it is needed; subsequent calls reuse the same texture so the
// same ring slot is always backed by the same shared resource for the
// lifetime of the session.
func (r *textureRing) texture(sequenceNumber uint32) (gpu.Texture, error) {
	slot := sequenceNumber % TextureCount
	if r.slots[slot] != nil {
		return r.slots[slot], nil
	}
	t, err := r.device.CreateTexture()
	if err != nil {
		return nil, fmt.Errorf("shm: create ring texture (layer %d, slot %d): %w", r.layer, slot, err)
	}
	name := r.tuple.TextureName(r.session, r.layer, sequenceNumber, TextureCount)
	if sharer, ok := r.device.(gpu.Sharer); ok {
		if err := sharer.ShareTexture(t, name); err != nil {
			return nil, fmt.Errorf("shm: share ring texture %q: %w", name, err)
		}
	}
	r.slots[slot] = t
	r.shared[slot] = true
	return t, nil
}

// close releases every texture the ring has created.
func (r *textureRing) close() {
	for i, t := range r.slots {
		if t != nil {
			r.device.DestroyTexture(t)
			r.slots[i] = nil
		}
	}
}

// consumerTextureSet is the consumer-side counterpart: lazily opened,
// by-name textures for the current session, reset whenever the
// session changes or a population attempt fails (spec §4.4: "Consumers
// open textures lazily by name on their own device; they must re-open
// on session change. Population failure ... resets the consumer's
// per-ring state.").
type consumerTextureSet struct {
	device  gpu.Device
	tuple   version.Tuple
	session uint64
	opened  [MaxLayers][TextureCount]gpu.Texture
}

func newConsumerTextureSet(device gpu.Device, tuple version.Tuple, session uint64) *consumerTextureSet {
	return &consumerTextureSet{device: device, tuple: tuple, session: session}
}

// ConsumerTextures is the exported handle to a consumer's lazily
// opened ring textures, for callers driving Reader.MaybeGet directly
// instead of through SingleBufferedReader (spec §4.7's "Core Reader").
type ConsumerTextures = consumerTextureSet

// NewConsumerTextures creates an empty ring-texture set for device and
// tuple. Pass the result to Reader.MaybeGet; it is reset automatically
// on session change or population failure.
func NewConsumerTextures(device gpu.Device, tuple version.Tuple) *ConsumerTextures {
	return newConsumerTextureSet(device, tuple, 0)
}

// reset discards every opened texture, forcing the next open to
// re-resolve by name. Called on session change and on population
// failure.
func (c *consumerTextureSet) reset(newSession uint64) {
	for layer := range c.opened {
		for slot := range c.opened[layer] {
			if c.opened[layer][slot] != nil {
				c.device.DestroyTexture(c.opened[layer][slot])
				c.opened[layer][slot] = nil
			}
		}
	}
	c.session = newSession
}

// open returns the shared texture for (layer, sequenceNumber),
// opening it by name on first use.
func (c *consumerTextureSet) open(layer uint8, sequenceNumber uint32) (gpu.Texture, error) {
	slot := sequenceNumber % TextureCount
	if t := c.opened[layer][slot]; t != nil {
		return t, nil
	}
	name := c.tuple.TextureName(c.session, layer, sequenceNumber, TextureCount)
	t, err := c.device.OpenSharedTexture(name)
	if err != nil {
		return nil, fmt.Errorf("shm: open ring texture %q: %w", name, err)
	}
	c.opened[layer][slot] = t
	return t, nil
}

func (c *consumerTextureSet) close() {
	c.reset(0)
}

// Close releases every texture this set currently has open.
func (c *ConsumerTextures) Close() { c.close() }
