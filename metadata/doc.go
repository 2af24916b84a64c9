// Package metadata renders the self-describing part of a snapshot: a JSON document
// that lists every registered data source and its presentation attributes.
//
// # Document Shape
//
//	{
//	    "datasources": {
//	        "cpu_avg": {
//	            "description": "average CPU usage",
//	            "owner": "host",
//	            "value_type": "float",
//	            "type": "gauge",
//	            "default": true,
//	            "units": "percent",
//	            "min": "0",
//	            "max": "100"
//	        }
//	    }
//	}
//
// Sources appear in slot order, which is the order of the value slots in the
// binary block, not in sorted order. Descriptor keys always appear in the order
// shown above. The rendered form is indented with four spaces.
//
// # Size Limit
//
// A document must stay below MaxBytes(n) for n sources. The limit keeps a
// malformed description from growing the snapshot file without bound.
package metadata
