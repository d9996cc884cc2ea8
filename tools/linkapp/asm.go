package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// writeLinkAppAsm emits the assembly file that embeds apps into the kernel
// image. It defines:
//
//	_num_app    the application count followed by count+1 boundary addresses
//	_app_names  one NUL-terminated name per application, in id order
//	app_N_start/app_N_end around each .incbin'd binary
func writeLinkAppAsm(w io.Writer, apps []app) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\n    .align 3\n    .section .data\n    .global _num_app\n_num_app:\n    .quad %d\n", len(apps))
	for i := range apps {
		fmt.Fprintf(bw, "    .quad app_%d_start\n", i)
	}
	if len(apps) > 0 {
		fmt.Fprintf(bw, "    .quad app_%d_end\n", len(apps)-1)
	} else {
		// an empty table still needs its end boundary
		fmt.Fprintf(bw, "    .quad _num_app\n")
	}

	fmt.Fprintf(bw, "\n    .global _app_names\n_app_names:\n")
	for _, a := range apps {
		fmt.Fprintf(bw, "    .string %s\n", strconv.Quote(a.Name))
	}

	for i, a := range apps {
		fmt.Fprintf(bw, "\n    .section .data\n    .global app_%[1]d_start\n    .global app_%[1]d_end\n    .align 3\napp_%[1]d_start:\n    .incbin %[2]s\napp_%[1]d_end:\n", i, strconv.Quote(a.Path))
	}

	return bw.Flush()
}
