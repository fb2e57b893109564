// Command hpke-keygen generates an HPKE KEM key pair for a chosen
// ciphersuite and writes the public and private halves to separate files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"filippo.io/hpke"
)

var kemNames = map[string]hpke.KEMID{
	"p256":   hpke.DHKEM_P256_HKDF_SHA256,
	"p384":   hpke.DHKEM_P384_HKDF_SHA384,
	"p521":   hpke.DHKEM_P521_HKDF_SHA512,
	"x25519": hpke.DHKEM_X25519_HKDF_SHA256,
	"x448":   hpke.DHKEM_X448_HKDF_SHA512,
}

func main() {
	log.SetFlags(0)

	kemFlag := flag.String("kem", "x25519", "KEM to generate a key pair for: p256, p384, p521, x25519, x448")
	outFlag := flag.String("o", "hpke", "output to `FILE`.pub and FILE.key")
	flag.Parse()
	if len(flag.Args()) != 0 {
		log.Fatalf("hpke-keygen takes no arguments")
	}

	kemID, ok := kemNames[*kemFlag]
	if !ok {
		log.Fatalf("unknown KEM %q", *kemFlag)
	}

	// The KDF and AEAD don't affect the key pair; Export-Only keeps this
	// tool from pulling in an AEAD choice it has no opinion about.
	suite, err := hpke.NewSuite(hpke.ModeBase, kemID, hpke.HKDF_SHA256, hpke.ExportOnly)
	if err != nil {
		log.Fatalf("internal error: %v", err)
	}

	pubName, keyName := *outFlag+".pub", *outFlag+".key"
	fp, err := os.OpenFile(pubName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		log.Fatalf("failed to open public key output %s: %v", pubName, err)
	}
	defer fp.Close()
	fk, err := os.OpenFile(keyName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		log.Fatalf("failed to open private key output %s: %v", keyName, err)
	}
	defer fk.Close()

	kp, err := suite.GenerateKeyPair()
	if err != nil {
		log.Fatalf("key generation failed: %v", err)
	}
	sk, pk := kp.Split()

	fmt.Fprintf(fp, "%s\n", pk)
	fmt.Fprintf(fk, "%s\n", sk)
	fmt.Fprintf(os.Stderr, "KEM: %s\n", kemID)
	fmt.Fprintf(os.Stderr, "%s and %s written\n", pubName, keyName)
}
