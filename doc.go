// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package dnac provides a small client for the Cisco Catalyst Center
// (formerly DNA Center) intent API and a device configuration exporter.
//
// # Quick Start
//
// Export the running configuration of every managed device:
//
//	client, err := dnac.NewClient(
//	    "https://10.10.20.85",
//	    dnac.Username("admin"),
//	    dnac.Password("secret"),
//	    dnac.VerifyCertificate(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	token, err := client.Login(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := dnac.NewExporter().Export(ctx, dnac.ExportRequest{
//	    BaseURL:     client.BaseURL,
//	    Token:       token,
//	    VerifyTLS:   false,
//	    DomainLabel: "lab1",
//	})
//	if err != nil {
//	    log.Fatal(err) // *RemoteRequestError: nothing was written
//	}
//	for _, res := range report.Results {
//	    fmt.Println(res.DeviceID, res.Path, res.Err)
//	}
//
// Files land in configs/<domain>/<date>/<id>_<date>.txt, or in
// configs/<id>_<date>.txt without a domain label.
//
// # Parsing Responses
//
// Responses are kept as raw JSON and queried with gjson paths:
//
//	res, err := client.Get(ctx, dnac.DeviceConfigPath)
//	n := res.Get("response.#").Int()
//
// # Error Handling
//
//   - *RemoteRequestError: transport failure or non-2xx status, fatal
//   - *MalformedRecordError: a device record without id or runningConfig, skipped
//   - *FilesystemError: a directory or file could not be written, per record
//
// Requests are never retried.
//
// # References
//
//   - Catalyst Center API: https://developer.cisco.com/docs/dna-center/
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
package dnac
