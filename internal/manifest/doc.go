// Package manifest builds the JSON descriptor of the image samples shipped
// under assets/samples.
//
// A run lists the samples directory once, keeps .jpg/.jpeg/.png entries that
// are neither hidden nor the manifest itself, orders them by case-folded name
// and rewrites manifest.json in full:
//
//	{
//	  "samples": [
//	    {
//	      "label": "a.JPG",
//	      "file": "assets/samples/a.JPG"
//	    }
//	  ]
//	}
//
// The output is a pure function of the directory listing, so repeated runs on
// an unchanged directory produce identical bytes.
package manifest
