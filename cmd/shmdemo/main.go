// Command shmdemo is an integration test for the shared-frame
// transport: it drives a Writer and a SingleBufferedReader against
// each other entirely in-process using the gpu/sim backend, the same
// role as the teacher's cmd/dx12-test for the DX12 HAL backend.
package main

import (
	"fmt"
	"os"

	"github.com/Cornflakes-code/OpenKneeboard/gpu"
	"github.com/Cornflakes-code/OpenKneeboard/gpu/sim"
	"github.com/Cornflakes-code/OpenKneeboard/kind"
	"github.com/Cornflakes-code/OpenKneeboard/shm"
	"github.com/Cornflakes-code/OpenKneeboard/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("SUCCESS: shared-frame transport works!")
}

func run() error {
	fmt.Println("=== Shared-Frame Transport Demo (sim backend) ===")
	fmt.Println()

	tuple := version.Current

	fmt.Print("1. Opening producer device... ")
	producerDevice := sim.New()
	fmt.Println("OK")

	fmt.Print("2. Attaching Writer... ")
	// The PID passed here must match the identity producerDevice itself
	// exports fence handles under (spec §4.5's "handle value verbatim
	// in the header along with its PID"): sim hands out a synthetic PID
	// per Device rather than the OS PID, so that is what we thread
	// through, not os.Getpid().
	writer, err := shm.New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		return fmt.Errorf("attach writer: %w", err)
	}
	defer writer.Close()
	fmt.Println("OK")

	fmt.Print("3. Opening consumer device and SingleBufferedReader... ")
	consumerDevice, err := gpu.Open("sim")
	if err != nil {
		return fmt.Errorf("open consumer device: %w", err)
	}
	reader, err := shm.NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		return fmt.Errorf("attach reader: %w", err)
	}
	defer reader.Close()
	fmt.Println("OK")

	fmt.Print("4. Committing a frame... ")
	if err := commitFrame(writer, kind.Of(kind.Test)); err != nil {
		return fmt.Errorf("commit frame: %w", err)
	}
	fmt.Println("OK")

	fmt.Print("5. Reading the frame back... ")
	snap := reader.MaybeGet(kind.Test)
	if !snap.IsValid() {
		return fmt.Errorf("expected Valid snapshot, got %s", snap.State())
	}
	if snap.Header().SequenceNumber != 1 {
		return fmt.Errorf("expected sequence number 1, got %d", snap.Header().SequenceNumber)
	}
	fmt.Println("OK")

	fmt.Print("6. Committing a frame for DirectX11 only, reading as Vulkan... ")
	if err := commitFrame(writer, kind.Of(kind.DirectX11)); err != nil {
		return fmt.Errorf("commit frame: %w", err)
	}
	mismatched := reader.MaybeGet(kind.Vulkan)
	if mismatched.State() != shm.IncorrectKind {
		return fmt.Errorf("expected IncorrectKind, got %s", mismatched.State())
	}
	fmt.Println("OK")

	fmt.Println()
	fmt.Println("=== Demo PASSED ===")
	return nil
}

// commitFrame runs the commit protocol documented in spec §4.6: choose
// the next ring slot, render (a no-op here, since sim textures start
// zeroed), lock, update, signal, unlock.
func commitFrame(writer *shm.Writer, target kind.Mask) error {
	layer := shm.LayerConfig{
		Width:       1024,
		Height:      2048,
		ImageWidth:  1024,
		ImageHeight: 2048,
	}
	if _, err := writer.RenderTarget(0); err != nil {
		return err
	}

	writer.Lock()
	defer writer.Unlock()

	seq := writer.NextSequenceNumber()
	writer.Update(shm.Config{Target: target}, []shm.LayerConfig{layer}, writer.FenceHandle())
	return writer.Signal(seq)
}
