package config

// EnvPrefix is prepended to every environment variable, e.g. LIGHTBOX_CONCURRENCY.
const EnvPrefix = "LIGHTBOX"

// Default paths
const (
	// DefaultDataDir holds generated thumbnails and the scan lock
	DefaultDataDir = "./lightbox-data"

	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./lightbox.db"
)

// Default accepted extensions, comma-separated.
const (
	DefaultRawExtensions = "3fr,ari,arw,bay,cr2,cr3,crw,dcr,dng,erf,fff,iiq,k25,kdc," +
		"mef,mos,mrw,nef,nrw,orf,pef,raf,raw,rw2,rwl,sr2,srf,srw,x3f"
	DefaultImageExtensions = "jpg,jpeg,png,tif,tiff,gif,bmp,webp"
)
