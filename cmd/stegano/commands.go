package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/yyyoichi/stegano"
	"github.com/yyyoichi/stegano/internal/imageio"
	"github.com/yyyoichi/stegano/internal/lsb"
	"github.com/yyyoichi/stegano/internal/quality"
)

func runHide(ctx context.Context, args []string, stdout io.Writer) error {
	var c commonFlags
	fs := newFlagSet("hide", &c)
	pos, err := parse(fs, args, "input", "output", "secret")
	if err != nil {
		return err
	}
	input, output, text := pos[0], pos[1], pos[2]
	logger := c.logger()

	// fail before doing any work if the output cannot be written losslessly
	format, err := imageio.Format(output)
	if err != nil {
		return err
	}
	src, err := c.loader().Load(ctx, input)
	if err != nil {
		return err
	}
	batch := stegano.NewBatch(src)
	logger.Printf("loaded %s: %dx%d, %d channels, capacity %d bits (%d bytes of text)",
		input, src.Bounds().Dx(), src.Bounds().Dy(), batch.Channels(), batch.Capacity(), batch.MaxPayload())

	marked, err := batch.Embed(ctx, text)
	if err != nil {
		return err
	}
	if err := imageio.Save(output, marked); err != nil {
		return err
	}
	logger.Printf("wrote %s as %s", output, format)

	fmt.Fprintf(stdout, "Secret hidden successfully in '%s'.\n", output)
	return nil
}

func runReveal(ctx context.Context, args []string, stdout io.Writer) error {
	var c commonFlags
	fs := newFlagSet("reveal", &c)
	raw := fs.Bool("raw", false, "print only the secret")
	pos, err := parse(fs, args, "image")
	if err != nil {
		return err
	}
	logger := c.logger()

	src, err := c.loader().Load(ctx, pos[0])
	if err != nil {
		return err
	}
	logger.Printf("loaded %s: %dx%d", pos[0], src.Bounds().Dx(), src.Bounds().Dy())

	text, err := stegano.Extract(ctx, src)
	if err != nil {
		return err
	}
	if *raw {
		fmt.Fprintln(stdout, text)
		return nil
	}
	fmt.Fprintf(stdout, "--> secret message is: \"%s\"\n", text)
	return nil
}

type capacityReport struct {
	Image         string                  `json:"image"`
	Width         int                     `json:"width"`
	Height        int                     `json:"height"`
	Channels      int                     `json:"channels"`
	CapacityBits  int                     `json:"capacity_bits"`
	MaxPayloadLen int                     `json:"max_payload_bytes"`
	LSB           []quality.ChannelReport `json:"lsb"`
}

func runCapacity(ctx context.Context, args []string, stdout io.Writer) error {
	var c commonFlags
	fs := newFlagSet("capacity", &c)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	pos, err := parse(fs, args, "image")
	if err != nil {
		return err
	}

	src, err := c.loader().Load(ctx, pos[0])
	if err != nil {
		return err
	}
	grid := lsb.NewGrid(src)
	r := capacityReport{
		Image:         pos[0],
		Width:         grid.Width(),
		Height:        grid.Height(),
		Channels:      grid.Channels(),
		CapacityBits:  stegano.Capacity(src.Bounds()),
		MaxPayloadLen: stegano.MaxPayload(src.Bounds()),
		LSB:           quality.AnalyzeLSB(grid),
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Fprintf(stdout, "Image:       %s\n", r.Image)
	fmt.Fprintf(stdout, "Size:        %dx%d (%d channels)\n", r.Width, r.Height, r.Channels)
	fmt.Fprintf(stdout, "Capacity:    %d bits\n", r.CapacityBits)
	fmt.Fprintf(stdout, "Max secret:  %d bytes\n", r.MaxPayloadLen)
	fmt.Fprintln(stdout)
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tONES\tCHI2\tDF\tP")
	for _, ch := range r.LSB {
		fmt.Fprintf(tw, "%s\t%.4f\t%.2f\t%d\t%.4f\n", ch.Channel, ch.OnesRatio, ch.ChiSquare, ch.DegreesOfFreedom, ch.PValue)
	}
	return tw.Flush()
}

func runCompare(ctx context.Context, args []string, stdout io.Writer) error {
	var c commonFlags
	fs := newFlagSet("compare", &c)
	pos, err := parse(fs, args, "cover", "stego")
	if err != nil {
		return err
	}
	l := c.loader()
	cover, err := l.Load(ctx, pos[0])
	if err != nil {
		return err
	}
	stego, err := l.Load(ctx, pos[1])
	if err != nil {
		return err
	}

	d, err := quality.Compare(lsb.NewGrid(cover), lsb.NewGrid(stego))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Changed values: %d\n", d.Changed)
	fmt.Fprintf(stdout, "MSE:            %.6f\n", d.MSE)
	fmt.Fprintf(stdout, "PSNR:           %.2f dB\n", d.PSNR)
	return nil
}
