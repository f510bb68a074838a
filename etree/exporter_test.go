package etree_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/fwojciec/camspec"
	camspecetree "github.com/fwojciec/camspec/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cameraRecord() *camspec.Record {
	rec := camspec.NewRecord()
	rec.EnsureSection(camspec.GeneralInformation).SetScalar(camspec.KeyProductTitle, "DS-2CD <4MP>")
	rec.EnsureSection("Camera").Set("Image Sensor", camspec.Group(camspec.NewFields("Type", "1/3\" CMOS")))
	rec.EnsureSection("Video").Set("Stream", camspec.Records(
		camspec.NewFields("Type", "Main"),
		camspec.NewFields("Type", "Sub"),
	))
	return rec
}

func readDocument(t *testing.T, path string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(path))
	return doc
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes nested elements in record order", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cam.xml")

		require.NoError(t, camspecetree.NewExporter().Export(cameraRecord(), path))

		root := readDocument(t, path).Root()
		require.NotNil(t, root)
		assert.Equal(t, "camera", root.Tag)

		sections := root.ChildElements()
		require.Len(t, sections, 3)
		assert.Equal(t, "General_information", sections[0].Tag)
		assert.Equal(t, "General information", sections[0].SelectAttrValue("name", ""))
		assert.Equal(t, "DS-2CD <4MP>", sections[0].SelectElement("Product_Title").Text())

		sensor := sections[1].SelectElement("Image_Sensor")
		require.NotNil(t, sensor)
		assert.Equal(t, "Image Sensor", sensor.SelectAttrValue("name", ""))
		assert.Equal(t, `1/3" CMOS`, sensor.SelectElement("Type").Text())

		rows := sections[2].SelectElement("Stream").SelectElements("row")
		require.Len(t, rows, 2)
		assert.Equal(t, "1", rows[0].SelectAttrValue("index", ""))
		assert.Equal(t, "Sub", rows[1].SelectElement("Type").Text())
	})

	t.Run("starts with an XML declaration", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cam.xml")
		require.NoError(t, camspecetree.NewExporter().Export(cameraRecord(), path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `<?xml version="1.0" encoding="UTF-8"?>`)
	})

	t.Run("prefixes keys starting with a digit", func(t *testing.T) {
		t.Parallel()

		rec := camspec.NewRecord()
		rec.EnsureSection("Network").SetScalar("802.1x", "Yes")
		path := filepath.Join(t.TempDir(), "cam.xml")

		require.NoError(t, camspecetree.NewExporter().Export(rec, path))

		el := readDocument(t, path).FindElement("/camera/Network/key_802_1x")
		require.NotNil(t, el)
		assert.Equal(t, "802.1x", el.SelectAttrValue("name", ""))
	})

	t.Run("refuses empty records without creating a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cam.xml")

		err := camspecetree.NewExporter().Export(camspec.NewRecord(), path)

		assert.Equal(t, camspec.EINVALID, camspec.ErrorCode(err))
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestExporter_ExportBatch(t *testing.T) {
	t.Parallel()

	t.Run("writes one element per URL", func(t *testing.T) {
		t.Parallel()

		results := []camspec.BatchResult{
			{URL: "https://example.com/a?x=1&y=2", Record: cameraRecord()},
			{URL: "https://example.com/b", Record: camspec.ErrorRecord(errors.New("timeout"))},
		}
		path := filepath.Join(t.TempDir(), "all_cameras.xml")

		require.NoError(t, camspecetree.NewExporter().ExportBatch(results, path))

		root := readDocument(t, path).Root()
		assert.Equal(t, "cameras", root.Tag)
		cameras := root.SelectElements("camera")
		require.Len(t, cameras, 2)
		assert.Equal(t, "https://example.com/a?x=1&y=2", cameras[0].SelectAttrValue("url", ""))
		assert.Len(t, cameras[0].ChildElements(), 3)
		assert.Equal(t, "timeout", cameras[1].SelectAttrValue("error", ""))
		assert.Empty(t, cameras[1].ChildElements())
	})

	t.Run("refuses an empty batch", func(t *testing.T) {
		t.Parallel()

		err := camspecetree.NewExporter().ExportBatch(nil, filepath.Join(t.TempDir(), "all.xml"))

		assert.Equal(t, camspec.EINVALID, camspec.ErrorCode(err))
	})
}

func TestExporter_Format(t *testing.T) {
	t.Parallel()

	assert.Equal(t, camspec.FormatXML, camspecetree.NewExporter().Format())
}
